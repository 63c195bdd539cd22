package models

type User struct {
	UserID           string `json:"user_id" yaml:"user_id"`
	Password         string `json:"password" yaml:"password"`
	SecurityQuestion string `json:"security_question" yaml:"security_question"`
	SecurityAnswer   string `json:"security_answer" yaml:"security_answer"`
	CertPath         string `json:"cert_path,omitempty" yaml:"cert_path,omitempty"`
	CertBlob         []byte `json:"cert_blob,omitempty" yaml:"-"`
}

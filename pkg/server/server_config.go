package server

import (
	"github.com/spf13/pflag"

	"github.com/hirewire/control-tower/pkg/shared"
)

type ServerConfig struct {
	BindAddress   string `json:"bind_address"`
	EnableHTTPS   bool   `json:"enable_https"`
	HTTPSCertFile string `json:"https_cert_file"`
	HTTPSKeyFile  string `json:"https_key_file"`
	EnableAuth    bool   `json:"enable_auth"`
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		BindAddress:   "localhost:8000",
		EnableHTTPS:   false,
		HTTPSCertFile: "",
		HTTPSKeyFile:  "",
		EnableAuth:    true,
	}
}

func (s *ServerConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.BindAddress, "api-server-bindaddress", s.BindAddress, "API server bind address")
	fs.BoolVar(&s.EnableHTTPS, "enable-https", s.EnableHTTPS, "Enable HTTPS rather than HTTP")
	fs.StringVar(&s.HTTPSCertFile, "https-cert-file", s.HTTPSCertFile, "The path to the tls.crt file")
	fs.StringVar(&s.HTTPSKeyFile, "https-key-file", s.HTTPSKeyFile, "The path to the tls.key file")
	fs.BoolVar(&s.EnableAuth, "enable-auth", s.EnableAuth, "Enable actor authentication on API endpoints")
}

func (s *ServerConfig) ReadFiles() error {
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.EnableHTTPS {
		if err := shared.ReadFileValueString(s.HTTPSCertFile, &s.HTTPSCertFile); err != nil {
			return err
		}
		if err := shared.ReadFileValueString(s.HTTPSKeyFile, &s.HTTPSKeyFile); err != nil {
			return err
		}
	}
	return nil
}

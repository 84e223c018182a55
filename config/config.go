package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type SmtpConfig struct {
	Enable   bool   `yaml:"enable" json:"enable"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	From     string `yaml:"from" json:"from"`
	AlertsTo string `yaml:"alerts_to" json:"alerts_to"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "dairyledger",
		Location: "Asia/Kolkata",
		Workdir:  "/var/dairyledger",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-dairyledger-0768-4bcb-a5c1",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "dairyledger",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/dairyledger/dairyledger.log",
	},
	Smtp: SmtpConfig{
		Enable: false,
		Port:   465,
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok {
		f(v)
	}
}

// LoadConfig reads the YAML config file and applies environment
// variable overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				cfg = DefaultAppConfig
			}
		}
	}

	setEnvValue("DAIRYLEDGER_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("DAIRYLEDGER_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("DAIRYLEDGER_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("DAIRYLEDGER_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("DAIRYLEDGER_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("DAIRYLEDGER_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("DAIRYLEDGER_SMTP_HOST", func(v string) { cfg.Smtp.Host = v })
	setEnvValue("DAIRYLEDGER_SMTP_USER", func(v string) { cfg.Smtp.User = v })
	setEnvValue("DAIRYLEDGER_SMTP_PWD", func(v string) { cfg.Smtp.Passwd = v })
	return cfg
}

package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	PGSQL      PQSQL      `yaml:"pgsql" env-required:"true"`
	Redis      Redis      `yaml:"redis"`
	Cloudinary Cloudinary `yaml:"cloudinary"`
	HTTPServer HTTPServer `yaml:"http_server" env-required:"true"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
}

type HTTPServer struct {
	Address string `yaml:"address" env-default:"localhost:8080"`
}

type PQSQL struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-default:"postgres"`
	Password string `yaml:"password" env-default:"password"`
	DBName   string `yaml:"dbname" env-default:"media_db"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

// Cloudinary holds the media-hosting credentials. The fields are not
// env-required on purpose: the video upload handler checks them per request
// and reports the configuration error itself.
type Cloudinary struct {
	CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
}

// Missing reports whether any of the three required credentials is absent.
func (c Cloudinary) Missing() bool {
	return c.CloudName == "" || c.APIKey == "" || c.APISecret == ""
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return &cfg
}

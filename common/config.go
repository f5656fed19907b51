package common

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// LoadEnv reads .env style files into the environment. A missing default
// .env is not an error; explicitly named files must exist.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if len(files) == 0 && errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func MySQLConfig() *mysql.Config {
	return &mysql.Config{
		User:                 os.Getenv("DB_USER"),
		Passwd:               os.Getenv("DB_PASSWORD"),
		Addr:                 os.Getenv("DB_ADDRESS"),
		DBName:               os.Getenv("DB_NAME"),
		Collation:            "utf8mb4_general_ci",
		Net:                  "tcp",
		AllowNativePasswords: true,
		ParseTime:            true,
	}
}

func AMQPURL() string {
	return os.Getenv("AMQP_URL")
}

// EnvInt returns the integer value of key, or def when unset or malformed.
func EnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}

	return v
}

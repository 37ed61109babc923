package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_URL format: mysql://root:root@(127.0.0.1:3306)/corework?charset=utf8mb4&parseTime=True&loc=Local
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("environment variable DATABASE_URL is not set")
	}
	idx := strings.Index(databaseURL, "://")
	if idx <= 0 || idx == len(databaseURL)-3 {
		return nil, errors.New("invalid DATABASE_URL: " + databaseURL)
	}
	return &DatabaseConfig{DriverType: databaseURL[0:idx], DriverArgs: databaseURL[idx+3:]}, nil
}

// PrepareMysqlDatabase create the database of the DSN when absent.
func PrepareMysqlDatabase(driverArgs string) error {
	slashIdx := strings.Index(driverArgs, "/")
	if slashIdx < 0 {
		return errors.New("invalid mysql driver args: " + driverArgs)
	}
	databaseName := driverArgs[slashIdx+1:]
	if queryIdx := strings.Index(databaseName, "?"); queryIdx >= 0 {
		databaseName = databaseName[0:queryIdx]
	}
	if databaseName == "" {
		return errors.New("database name is missing in driver args")
	}

	db, err := sql.Open("mysql", driverArgs[0:slashIdx+1])
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName + " CHARACTER SET utf8mb4")
	return err
}

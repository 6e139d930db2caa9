package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrJWTSecretMissing error if one of the token signing secrets is empty.
	ErrJWTSecretMissing = errors.New("config jwt.accessSecret and jwt.refreshSecret must be set")

	// ErrJWTSecretsEqual error if access and refresh tokens would be signed with the same secret.
	ErrJWTSecretsEqual = errors.New("config jwt.accessSecret and jwt.refreshSecret must differ")

	// ErrUnknownGormEngine error if db.gormEngine is not one of the supported engines.
	ErrUnknownGormEngine = errors.New("config db.gormEngine must be one of sqlite, mysql, postgres")
)

package authlogin

import (
	"database/sql"

	"career-guide/internal/common/logger"
)

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Output struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

type ServiceDependencies struct {
	DB     *sql.DB
	Logger logger.Logger
}

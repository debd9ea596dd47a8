package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/tutoring-schedule-api/pkg/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "school", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=school sslmode=disable", DSN(cfg, "", ""))
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=school sslmode=disable application_name=svc timezone=Asia/Bangkok",
		DSN(cfg, "svc", "Asia/Bangkok"),
	)
}

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDB(t *testing.T) {
	gormDB, mock := GetMockDB()

	assert.Same(t, gormDB, GetDb())
	assert.Equal(t, gormDB.Name(), "postgres")
	assert.Nil(t, mock.ExpectationsWereMet())
}

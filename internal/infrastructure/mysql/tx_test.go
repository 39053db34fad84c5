package mysql

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDeadlockError(t *testing.T) {
	assert.True(t, IsDeadlockError(&mysql.MySQLError{Number: 1213}))
	assert.True(t, IsDeadlockError(&mysql.MySQLError{Number: 1205}))
	assert.True(t, IsDeadlockError(fmt.Errorf("inserting order: %w", &mysql.MySQLError{Number: 1213})))
	assert.False(t, IsDeadlockError(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDeadlockError(fmt.Errorf("boom")))
}

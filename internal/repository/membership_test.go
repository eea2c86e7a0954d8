package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds statements without a server and records every select.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=liaison dbname=liaison sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	var statements []string
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	})
	require.NoError(t, err)
	return db, &statements
}

func TestIsCompanyMemberCountsApprovedRowsOnly(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewMembershipRepository(db)

	ok, err := repo.IsCompanyMember(context.Background(), "C1", "U1")

	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, *statements, 1)
	assert.Contains(t, (*statements)[0], `"users_to_companies"`)
	assert.Contains(t, (*statements)[0], "is_approved = $3")
}

func TestIsTeamMemberChecksExistence(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewMembershipRepository(db)

	_, err := repo.IsTeamMember(context.Background(), "T1", "U1")

	require.NoError(t, err)
	require.Len(t, *statements, 1)
	assert.Contains(t, (*statements)[0], "team_id = $1 AND user_id = $2")
}

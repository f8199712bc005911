package entity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqidamar/timely/internal/domain/entity"
)

func TestNewUser(t *testing.T) {
	u := entity.NewUser("a@b.com", "123", "hashed", "Ada", "Lovelace")

	_, err := uuid.Parse(u.ID)
	require.NoError(t, err, "id must be a generated uuid")

	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "123", u.Phone)
	assert.Equal(t, "hashed", u.PasswordHash)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Lovelace", u.LastName)
	assert.False(t, u.IsVerified)
	assert.True(t, u.CreatedAt.IsZero(), "timestamps belong to the persistence boundary")
	assert.True(t, u.UpdatedAt.IsZero())
}

func TestNewUserUniqueIDs(t *testing.T) {
	a := entity.NewUser("a@b.com", "123", "h", "", "")
	b := entity.NewUser("a@b.com", "123", "h", "", "")
	assert.NotEqual(t, a.ID, b.ID)
}

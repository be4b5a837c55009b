package sqlite

import (
	"context"
	"net/mail"
	"testing"

	"github.com/dekarrin/grammarq/internal/cnf"
	"github.com/dekarrin/grammarq/internal/grammar"
	"github.com/dekarrin/grammarq/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) dao.Store {
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_UsersDB(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := newTestStore(t).Users()

	email, _ := mail.ParseAddress("ana@example.com")

	created, err := repo.Create(ctx, dao.User{Username: "ana", Password: "pw", Role: dao.Admin, Email: email})
	require.NoError(t, err)
	assert.Equal("ana", created.Username)
	assert.Equal(dao.Admin, created.Role)
	assert.Equal("ana@example.com", created.Email.Address)

	_, err = repo.Create(ctx, dao.User{Username: "ana", Password: "pw"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	byName, err := repo.GetByUsername(ctx, "ana")
	assert.NoError(err)
	assert.Equal(created.ID, byName.ID)

	created.Password = "new"
	updated, err := repo.Update(ctx, created.ID, created)
	assert.NoError(err)
	assert.Equal("new", updated.Password)

	_, err = repo.Update(ctx, uuid.New(), created)
	assert.ErrorIs(err, dao.ErrNotFound)

	_, err = repo.Create(ctx, dao.User{Username: "bea", Password: "pw"})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 2)

	_, err = repo.Delete(ctx, created.ID)
	assert.NoError(err)
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_GrammarsDB(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := newTestStore(t).Grammars()

	g := grammar.MustParse("0 -> 'a' 0 | 'b'\n")
	g.Normalize()
	compiled, err := cnf.FromNormalized(g)
	require.NoError(t, err)

	owner := uuid.New()

	created, err := repo.Create(ctx, dao.Grammar{Name: "as then b", Source: "<s>: {a} b", CNF: compiled, Owner: owner})
	require.NoError(t, err)
	assert.Equal("as then b", created.Name)
	assert.Equal(owner, created.Owner)
	assert.Equal(compiled, created.CNF)
	assert.True(created.CNF.Accepts("aab"))

	_, err = repo.Create(ctx, dao.Grammar{Name: "other", Source: "<s>: x", CNF: compiled, Owner: uuid.New()})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 2)

	owned, err := repo.GetAllByOwner(ctx, owner)
	assert.NoError(err)
	if assert.Len(owned, 1) {
		assert.Equal(created.ID, owned[0].ID)
	}

	deleted, err := repo.Delete(ctx, created.ID)
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

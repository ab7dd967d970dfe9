package contacts

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping repository tests")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

// freshRepo returns a repository over an initialised schema with no contacts.
func freshRepo(t *testing.T) *Repository {
	t.Helper()
	pool := getTestPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	require.NoError(t, repo.InitSchema(ctx))
	require.NoError(t, repo.Seed(ctx))
	_, err := pool.Exec(ctx, `DELETE FROM contacts`)
	require.NoError(t, err)
	return repo
}

func statusByName(t *testing.T, repo *Repository, name string) Status {
	t.Helper()
	statuses, err := repo.ListStatuses(context.Background())
	require.NoError(t, err)
	for _, s := range statuses {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("status %q not seeded", name)
	return Status{}
}

func TestRepository_InitSchema(t *testing.T) {
	repo := NewRepository(getTestPool(t))

	require.NoError(t, repo.InitSchema(context.Background()))
	// Running again should be idempotent
	require.NoError(t, repo.InitSchema(context.Background()))
}

func TestRepository_Seed_Idempotent(t *testing.T) {
	repo := freshRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx))

	statuses, err := repo.ListStatuses(ctx)
	require.NoError(t, err)
	var names []string
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	assert.Subset(t, names, []string{"Active", "Archived", "Potential"})
}

func TestRepository_GetStatus(t *testing.T) {
	repo := freshRepo(t)
	active := statusByName(t, repo, "Active")

	got, err := repo.GetStatus(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, &active, got)

	got, err = repo.GetStatus(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_CreateAndGetContact(t *testing.T) {
	repo := freshRepo(t)
	ctx := context.Background()
	active := statusByName(t, repo, "Active")

	in := validInput()
	in.StatusID = active.ID.String()
	c, err := repo.CreateContact(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ewa", c.FirstName)
	require.NotNil(t, c.Status)
	assert.Equal(t, "Active", c.Status.Name)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.GetContact(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, got.Email)

	missing, err := repo.GetContact(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_CreateContact_WithoutStatus(t *testing.T) {
	repo := freshRepo(t)
	in := validInput()
	in.StatusID = ""

	c, err := repo.CreateContact(context.Background(), in)

	require.NoError(t, err)
	assert.Nil(t, c.Status)
}

func TestRepository_CreateContact_Duplicate(t *testing.T) {
	repo := freshRepo(t)
	ctx := context.Background()
	in := validInput()
	in.StatusID = ""
	_, err := repo.CreateContact(ctx, in)
	require.NoError(t, err)

	in.Email = "other@example.com"
	_, err = repo.CreateContact(ctx, in)

	require.ErrorIs(t, err, ErrDuplicate)
}

func TestRepository_CreateContact_UnknownStatus(t *testing.T) {
	repo := freshRepo(t)
	in := validInput()
	in.StatusID = uuid.NewString()

	_, err := repo.CreateContact(context.Background(), in)

	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestRepository_ListContacts(t *testing.T) {
	repo := freshRepo(t)
	ctx := context.Background()
	active := statusByName(t, repo, "Active")
	archived := statusByName(t, repo, "Archived")

	for i, last := range []string{"Zielinski", "Adamczyk", "Nowak", "Kowalski", "Mazur", "Lewandowski", "Wojcik"} {
		status := active
		if i%2 == 1 {
			status = archived
		}
		_, err := repo.CreateContact(ctx, ContactInput{
			FirstName: "Test", LastName: last,
			PhoneNumber: fmt.Sprintf("50000000%d", i), Email: fmt.Sprintf("%s@example.com", last),
			City: "Poznań", StatusID: status.ID.String(),
		})
		require.NoError(t, err)
	}

	t.Run("default sort and paging", func(t *testing.T) {
		page, err := repo.ListContacts(ctx, ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, 7, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Contacts, PageSize)
		assert.Equal(t, "Adamczyk", page.Contacts[0].LastName)

		second, err := repo.ListContacts(ctx, ListQuery{Page: 2})
		require.NoError(t, err)
		assert.Len(t, second.Contacts, 2)
		assert.Equal(t, "Zielinski", second.Contacts[1].LastName)
	})

	t.Run("page past the end shows the last page", func(t *testing.T) {
		page, err := repo.ListContacts(ctx, ListQuery{Page: 9})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Contacts, 2)
		assert.False(t, page.HasNext())
	})

	t.Run("descending sort", func(t *testing.T) {
		page, err := repo.ListContacts(ctx, ListQuery{Sort: "-last_name"})
		require.NoError(t, err)
		assert.Equal(t, "Zielinski", page.Contacts[0].LastName)
	})

	t.Run("search", func(t *testing.T) {
		page, err := repo.ListContacts(ctx, ListQuery{Search: "kowal"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "Kowalski", page.Contacts[0].LastName)
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		page, err := repo.ListContacts(ctx, ListQuery{Search: "%"})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)
	})

	t.Run("status filter", func(t *testing.T) {
		page, err := repo.ListContacts(ctx, ListQuery{StatusID: &archived.ID})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		for _, c := range page.Contacts {
			assert.Equal(t, "Archived", c.Status.Name)
		}
	})
}

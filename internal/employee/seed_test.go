package employee

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/staffdeck/directory-api/internal/employee/entity"
)

const generatorPayload = `{
	"results": [
		{
			"name": {"first": "Ada", "last": "Lovelace"},
			"email": "ada.lovelace@example.com",
			"phone": "0123-456-789",
			"location": {"city": "London", "country": "United Kingdom"},
			"picture": {"large": "https://example.com/portraits/ada.jpg"}
		},
		{
			"name": {"first": "Alan", "last": "Turing"},
			"email": "alan.turing@example.com",
			"phone": "0123-456-790",
			"location": {"city": "Manchester", "country": "United Kingdom"},
			"picture": {"large": "https://example.com/portraits/alan.jpg"}
		}
	]
}`

func newFakeGenerator(t *testing.T, status int, payload string) *GeneratorClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "50", r.URL.Query().Get("results"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return NewGeneratorClient(srv.URL)
}

func TestInitializeIfEmptySeeds(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	gen := newFakeGenerator(t, http.StatusOK, generatorPayload)

	require.NoError(t, svc.InitializeIfEmpty(context.Background(), gen))
	require.Len(t, store.records, 2)

	ada := store.records[0]
	require.Equal(t, "Ada", ada.FirstName)
	require.Equal(t, "ada.lovelace@example.com", ada.Email)
	require.Equal(t, "London, United Kingdom", ada.Location)
	require.Contains(t, svc.departments, ada.Department)
	require.Contains(t, seedTitles, ada.Title)
	require.True(t, ada.IsActive)
	require.GreaterOrEqual(t, ada.Salary, float64(40000))
	require.Less(t, ada.Salary, float64(150000))

	// seeded portraits go through the custom-avatar path
	require.Equal(t, "https://example.com/portraits/ada.jpg", ada.Avatar)
	require.NotNil(t, ada.CustomAvatar)
	require.Equal(t, ada.Avatar, *ada.CustomAvatar)
}

func TestInitializeIfEmptySkipsPopulatedStore(t *testing.T) {
	store := &fakeStore{records: []entity.Employee{{ID: "existing", Email: "a@x.com"}}}
	svc := newTestService(store)

	// no server behind this client; Fetch would fail if it were called
	gen := NewGeneratorClient("http://127.0.0.1:0")

	require.NoError(t, svc.InitializeIfEmpty(context.Background(), gen))
	require.Len(t, store.records, 1)
}

func TestInitializeIfEmptyGeneratorFailure(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	gen := newFakeGenerator(t, http.StatusBadGateway, "")

	err := svc.InitializeIfEmpty(context.Background(), gen)
	require.Error(t, err)
	require.Empty(t, store.records)
}

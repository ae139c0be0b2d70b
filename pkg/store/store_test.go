package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *recordingObserver) ObserveStoreOperation(operation, collection string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, operation+":"+collection)
}

func TestStoreLoadCreatesMissingCollection(t *testing.T) {
	driver := NewMemoryDriver()
	obs := &recordingObserver{}
	s := New(driver, nil, obs)

	var records []record
	require.NoError(t, s.Load(context.Background(), "teachers", &records))
	assert.Empty(t, records)

	raw, err := driver.Read(context.Background(), "teachers")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
	assert.Equal(t, []string{"read:teachers", "read:teachers", "write:teachers"}, obs.ops)
}

func TestStoreLoadDoesNotCreateLockedCollection(t *testing.T) {
	driver := NewMemoryDriver()
	s := New(driver, nil, nil)
	ctx := context.Background()

	release := s.Lock("payments")

	var records []record
	require.NoError(t, s.Load(ctx, "payments", &records))
	assert.Empty(t, records)

	raw, err := driver.Read(ctx, "payments")
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, s.Save(ctx, "payments", []record{{ID: 1, Name: "first"}}))
	release()

	require.NoError(t, s.Load(ctx, "payments", &records))
	assert.Equal(t, []record{{ID: 1, Name: "first"}}, records)
}

func TestStoreLoadKeepsSaveThatRacedCreation(t *testing.T) {
	driver := &racingDriver{MemoryDriver: NewMemoryDriver()}
	s := New(driver, nil, nil)
	ctx := context.Background()
	driver.onMiss = func() {
		driver.onMiss = nil
		require.NoError(t, driver.Write(ctx, "tasks", []byte(`[{"id":9,"name":"late"}]`)))
	}

	var records []record
	require.NoError(t, s.Load(ctx, "tasks", &records))
	assert.Equal(t, []record{{ID: 9, Name: "late"}}, records)
}

// racingDriver runs onMiss after the first read of a missing collection, standing in
// for a writer whose save lands between that read and the empty-collection write.
type racingDriver struct {
	*MemoryDriver
	onMiss func()
}

func (d *racingDriver) Read(ctx context.Context, collection string) ([]byte, error) {
	raw, err := d.MemoryDriver.Read(ctx, collection)
	if raw == nil && err == nil && d.onMiss != nil {
		d.onMiss()
	}
	return raw, err
}

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	s := New(NewMemoryDriver(), nil, nil)
	ctx := context.Background()

	in := []record{{ID: 1, Name: "Алия"}, {ID: 2, Name: "<b>"}}
	require.NoError(t, s.Save(ctx, "students", in))

	var out []record
	require.NoError(t, s.Load(ctx, "students", &out))
	assert.Equal(t, in, out)
}

func TestStoreLoadRejectsCorruptContent(t *testing.T) {
	driver := NewMemoryDriver()
	require.NoError(t, driver.Write(context.Background(), "groups", []byte(`{"id":1}`)))
	s := New(driver, nil, nil)

	var out []record
	err := s.Load(context.Background(), "groups", &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))

	require.NoError(t, driver.Write(context.Background(), "groups", []byte(`[{"id":`)))
	err = s.Load(context.Background(), "groups", &out)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestEncodeFormatting(t *testing.T) {
	out, err := Encode([]record{{ID: 1, Name: "Жанна & <Co>"}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"name\": \"Жанна & <Co>\"\n  }\n]", string(out))

	var nilRecords []record
	out, err = Encode(nilRecords)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestStoreLockSerializesWriters(t *testing.T) {
	s := New(NewMemoryDriver(), nil, nil)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "payments", []record{}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release := s.Lock("students", "payments", "students")
			defer release()

			var records []record
			assert.NoError(t, s.Load(ctx, "payments", &records))
			records = append(records, record{ID: int64(i)})
			assert.NoError(t, s.Save(ctx, "payments", records))
		}(i)
	}
	wg.Wait()

	var records []record
	require.NoError(t, s.Load(ctx, "payments", &records))
	assert.Len(t, records, 20)
}

func TestStoreLockReleaseIsIdempotent(t *testing.T) {
	s := New(NewMemoryDriver(), nil, nil)
	release := s.Lock("groups")
	release()
	release()

	done := make(chan struct{})
	go func() {
		s.Lock("groups")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock was not released")
	}
}

func TestFileDriverWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	driver, err := NewFileDriver(dir)
	require.NoError(t, err)
	s := New(driver, nil, nil)
	ctx := context.Background()

	var out []record
	require.NoError(t, s.Load(ctx, "companies", &out))
	data, err := os.ReadFile(driver.Path("companies"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, s.Save(ctx, "companies", []record{{ID: 7, Name: "Acme"}}))
	require.NoError(t, s.Load(ctx, "companies", &out))
	assert.Equal(t, []record{{ID: 7, Name: "Acme"}}, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".tmp-"), "leftover temp file %s", entry.Name())
	}
}

func TestFileDriverRejectsTraversal(t *testing.T) {
	driver, err := NewFileDriver(t.TempDir())
	require.NoError(t, err)

	_, err = driver.Read(context.Background(), "../secrets")
	assert.Error(t, err)
	assert.Error(t, driver.Write(context.Background(), "a/b", []byte("[]")))
}

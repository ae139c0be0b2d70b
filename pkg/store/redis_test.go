package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data   map[string]string
	getErr error
	keys   []string
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.keys = append(f.keys, "GET "+key)
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	value, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.keys = append(f.keys, "SET "+key)
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisDriverPrefixesKeys(t *testing.T) {
	client := newFakeRedis()
	driver := NewRedisDriver(client, "tutor-center:collection:")
	ctx := context.Background()

	assert.Equal(t, "redis", driver.Name())
	assert.Equal(t, "tutor-center:collection:groups", driver.Key("groups"))

	require.NoError(t, driver.Write(ctx, "groups", []byte(`[{"id":1}]`)))
	raw, err := driver.Read(ctx, "groups")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(raw))
	assert.Equal(t, []string{"SET tutor-center:collection:groups", "GET tutor-center:collection:groups"}, client.keys)

	require.NoError(t, driver.Close())
	assert.True(t, client.closed)
}

func TestRedisDriverMissingKeyIsEmpty(t *testing.T) {
	client := newFakeRedis()
	s := New(NewRedisDriver(client, "p:"), nil, nil)
	ctx := context.Background()

	raw, err := NewRedisDriver(client, "p:").Read(ctx, "tasks")
	require.NoError(t, err)
	assert.Nil(t, raw)

	var records []record
	require.NoError(t, s.Load(ctx, "tasks", &records))
	assert.Empty(t, records)
	assert.Equal(t, "[]", client.data["p:tasks"])
}

func TestRedisDriverSurfacesCommandErrors(t *testing.T) {
	client := newFakeRedis()
	client.getErr = errors.New("LOADING dataset in memory")
	driver := NewRedisDriver(client, "p:")

	_, err := driver.Read(context.Background(), "payments")
	assert.EqualError(t, err, "LOADING dataset in memory")

	s := New(driver, nil, nil)
	var records []record
	err = s.Load(context.Background(), "payments", &records)
	assert.ErrorContains(t, err, "read payments")
	assert.Empty(t, client.data)
}

func TestRedisDriverUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	driver := NewRedisDriver(client, "p:")
	defer driver.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	raw, err := driver.Read(ctx, "teachers")
	require.Error(t, err)
	assert.False(t, errors.Is(err, redis.Nil))
	assert.Empty(t, raw)
}

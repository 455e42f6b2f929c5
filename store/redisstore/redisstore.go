/*
Package redisstore provides a store.Store backed by a redis DB, so that
tables uploaded to one service instance can be used from another.
*/
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/store"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

/*
New takes a redis client, a prefix for the keys and a time to live and
returns a store.Store that keeps tables JSON encoded under "PREFIX:ID" keys.
Tables expire after the given ttl, 0 meaning they never do.
*/
func New(rc *redis.Client, prefix string, ttl time.Duration) store.Store {
	return &redisStore{rc, prefix, ttl}
}

func (rs *redisStore) Create(ctx context.Context, t *dataset.Table) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("creating table: encoding table: %v", err)
	}
	var id string
	var ok bool
	for !ok {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id = uuid.NewString()
		ok, err = rs.rc.SetNX(rs.keyFor(id), data, rs.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("creating table in redis: %v", err)
		}
	}
	return id, nil
}

func (rs *redisStore) Get(ctx context.Context, id string) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(id)).Bytes()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving table %q: %v", id, err)
	}
	t := &dataset.Table{}
	err = json.Unmarshal(data, t)
	if err != nil {
		return nil, fmt.Errorf("retrieving table %q: decoding: %v", id, err)
	}
	return t, nil
}

func (rs *redisStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	count, err := rs.rc.Del(rs.keyFor(id)).Result()
	if err != nil {
		return fmt.Errorf("deleting table %q from redis: %v", id, err)
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}

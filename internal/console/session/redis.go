package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/agenticlabs-console/internal/infra"
	"github.com/xela07ax/agenticlabs-console/internal/table"
)

// Поля hash-ключа состояния
const (
	fieldOffset  = "offset"
	fieldLimit   = "limit"
	fieldSortKey = "sort_key"
	fieldSortDir = "sort_dir"
	fieldIssued  = "issued"
	fieldApplied = "applied"
)

// commitScript атомарно сравнивает токен с примененным и обновляет страницу.
var commitScript = redis.NewScript(`
local applied = tonumber(redis.call('HGET', KEYS[1], 'applied') or '0')
local issued = tonumber(redis.call('HGET', KEYS[1], 'issued') or '0')
local token = tonumber(ARGV[1])
if token <= applied or token > issued then
	return 0
end
redis.call('HSET', KEYS[1], 'applied', ARGV[1], 'offset', ARGV[2], 'limit', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// RedisStore хранит состояние сессий в Redis, чтобы несколько инстансов консоли
// видели одну и ту же сортировку и порядок запросов.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, sessionID, view string) (ViewState, error) {
	vals, err := s.rdb.HGetAll(ctx, infra.SessionViewKey(sessionID, view)).Result()
	if err != nil {
		return ViewState{}, fmt.Errorf("session: load %s: %w", view, err)
	}

	var st ViewState
	st.Page.Offset, _ = strconv.Atoi(vals[fieldOffset])
	st.Page.Limit, _ = strconv.Atoi(vals[fieldLimit])
	st.Issued, _ = strconv.ParseUint(vals[fieldIssued], 10, 64)
	st.Applied, _ = strconv.ParseUint(vals[fieldApplied], 10, 64)

	// Битое значение сортировки трактуем как "не отсортировано"
	if key, err := table.ParseKey(vals[fieldSortKey]); err == nil {
		if dir, err := table.ParseDirection(vals[fieldSortDir]); err == nil {
			st.Sort = table.SortState{Key: key, Dir: dir}
		}
	}
	return st, nil
}

func (s *RedisStore) SaveSort(ctx context.Context, sessionID, view string, sort table.SortState) error {
	key := infra.SessionViewKey(sessionID, view)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if sort.Unsorted() {
			pipe.HDel(ctx, key, fieldSortKey, fieldSortDir)
		} else {
			pipe.HSet(ctx, key, fieldSortKey, string(sort.Key), fieldSortDir, sort.Dir.String())
		}
		pipe.PExpire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: save sort: %w", err)
	}
	return nil
}

func (s *RedisStore) Issue(ctx context.Context, sessionID, view string) (uint64, error) {
	key := infra.SessionViewKey(sessionID, view)
	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, fieldIssued, 1)
		pipe.PExpire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("session: issue token: %w", err)
	}
	return uint64(incr.Val()), nil
}

func (s *RedisStore) CommitPage(ctx context.Context, sessionID, view string, token uint64, page Page) (bool, error) {
	key := infra.SessionViewKey(sessionID, view)
	res, err := commitScript.Run(ctx, s.rdb, []string{key},
		token, page.Offset, page.Limit, s.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("session: commit page: %w", err)
	}
	return res == 1, nil
}

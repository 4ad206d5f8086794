package cache

import (
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

func Get(conn redis.Conn, key string) ([]byte, error) {
	return redis.Bytes(conn.Do("GET", key))
}

// Set stores value, expiring it after ttl when ttl is positive.
func Set(conn redis.Conn, key string, value interface{}, ttl time.Duration) error {
	args := redis.Args{}.Add(key, value)
	if ttl > 0 {
		args = args.Add("EX", seconds(ttl))
	}
	reply, err := redis.String(conn.Do("SET", args...))
	if err != nil {
		return err
	}
	if reply != "OK" {
		return fmt.Errorf("SET %s: unexpected reply %q", key, reply)
	}
	return nil
}

func Del(conn redis.Conn, keys ...string) error {
	_, err := conn.Do("DEL", redis.Args{}.AddFlat(keys)...)
	return err
}

func Expire(conn redis.Conn, key string, ttl time.Duration) error {
	_, err := conn.Do("EXPIRE", key, seconds(ttl))
	return err
}

// seconds rounds ttl up to whole seconds; redis rejects an expiry of 0.
func seconds(ttl time.Duration) int {
	n := int((ttl + time.Second - 1) / time.Second)
	if n < 1 {
		n = 1
	}
	return n
}

func RPUSH(conn redis.Conn, key string, values []interface{}) (int, error) {
	return redis.Int(conn.Do("RPUSH", redis.Args{}.Add(key).AddFlat(values)...))
}

// LTRIM keeps only the newest n entries of a list.
func LTRIM(conn redis.Conn, key string, n int) error {
	_, err := conn.Do("LTRIM", key, -n, -1)
	return err
}

func LRANGE(conn redis.Conn, key string, start, stop int) ([][]byte, error) {
	return redis.ByteSlices(conn.Do("LRANGE", key, start, stop))
}

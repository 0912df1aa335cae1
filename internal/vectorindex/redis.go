package vectorindex

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Hash field names used for stored documents.
const (
	fieldVector = "vector"
	fieldKey    = "doc_key"
	fieldPath   = "path"
)

// RedisIndex is the remote managed index backend, built on RediSearch
// vector search. Only the document key and provenance path travel with
// each vector; result hydration happens in the retrieval engine.
type RedisIndex struct {
	client    *redis.Client
	indexName string
	keyPrefix string
	dim       int
}

// NewRedisIndex connects to Redis and prepares a FLAT cosine vector
// index with the given name and dimensionality. Connection or index
// creation failure is fatal.
func NewRedisIndex(ctx context.Context, client *redis.Client, indexName string, dim int) (*RedisIndex, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", dim)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	idx := &RedisIndex{
		client:    client,
		indexName: indexName,
		keyPrefix: indexName + ":",
		dim:       dim,
	}

	if err := idx.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}
	return idx, nil
}

// ensureIndex creates the FLAT vector index if it does not exist.
func (idx *RedisIndex) ensureIndex(ctx context.Context) error {
	if _, err := idx.client.Do(ctx, "FT.INFO", idx.indexName).Result(); err == nil {
		return nil
	}

	_, err := idx.client.Do(ctx, "FT.CREATE", idx.indexName,
		"ON", "HASH",
		"PREFIX", "1", idx.keyPrefix,
		"SCHEMA",
		fieldVector, "VECTOR", "FLAT", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(idx.dim),
		"DISTANCE_METRIC", "COSINE",
		fieldKey, "TAG",
		fieldPath, "TEXT",
	).Result()
	if err != nil {
		return fmt.Errorf("FT.CREATE failed: %w", err)
	}
	return nil
}

// Upsert replaces the stored entries. Existing documents under the index
// prefix are rewritten by key, so re-indexing the same corpus is stable.
func (idx *RedisIndex) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := idx.client.Pipeline()
	for _, e := range entries {
		if len(e.Vector) != idx.dim {
			return fmt.Errorf("entry %s has dimension %d, index expects %d", e.Key, len(e.Vector), idx.dim)
		}
		pipe.HSet(ctx, idx.keyPrefix+e.Key,
			fieldVector, encodeVector(e.Vector),
			fieldKey, e.Key,
			fieldPath, e.Path,
		)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	return nil
}

// Search performs a KNN query and converts RediSearch cosine distance
// back to cosine similarity so scores match the local backend.
func (idx *RedisIndex) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(vector) != idx.dim {
		return nil, fmt.Errorf("query vector has dimension %d, index expects %d", len(vector), idx.dim)
	}

	queryStr := fmt.Sprintf("*=>[KNN %d @%s $query_vector AS score]", k, fieldVector)
	raw, err := idx.client.Do(ctx, "FT.SEARCH", idx.indexName, queryStr,
		"PARAMS", "2", "query_vector", encodeVector(vector),
		"RETURN", "3", fieldKey, fieldPath, "score",
		"SORTBY", "score", "ASC",
		"LIMIT", "0", strconv.Itoa(k),
		"DIALECT", "2",
	).Result()
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return parseSearchReply(raw)
}

// parseSearchReply decodes an FT.SEARCH reply of the form
// [total, docID, [field, value, ...], docID, ...].
func parseSearchReply(raw interface{}) ([]Match, error) {
	reply, ok := raw.([]interface{})
	if !ok || len(reply) == 0 {
		return nil, fmt.Errorf("unexpected search reply type %T", raw)
	}

	var matches []Match
	for i := 1; i+1 < len(reply); i += 2 {
		fields, ok := reply[i+1].([]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected document fields type %T", reply[i+1])
		}

		var m Match
		for j := 0; j+1 < len(fields); j += 2 {
			name, _ := fields[j].(string)
			value, _ := fields[j+1].(string)
			switch name {
			case fieldKey:
				m.Key = value
			case fieldPath:
				m.Path = value
			case "score":
				dist, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, fmt.Errorf("unparseable score %q: %w", value, err)
				}
				// RediSearch reports cosine distance; similarity = 1 - distance.
				m.Score = 1 - dist
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// encodeVector encodes a float32 vector as little-endian bytes, the
// format RediSearch expects for FLOAT32 vector fields.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

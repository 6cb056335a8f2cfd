// Package querycache serves read queries from an in-memory cache policy.
//
// DB wraps a *sql.DB: SELECT-style statements are keyed by a hash of the
// statement and its arguments and served from any policy satisfying the
// cache capability contract. Write statements execute directly and
// invalidate the cached results of the table they touch, falling back to a
// full clear when the table cannot be determined.
package querycache

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"strings"
	"sync"

	"github.com/Xuermosi/CachePool/cache"
)

// Result holds the materialized rows of a read query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// DB is a read-through query cache over a *sql.DB.
type DB struct {
	db    *sql.DB
	cache cache.Interface[uint64, *Result]

	mu sync.Mutex
	// tableKeys maps a normalized table name to the cache keys of queries
	// reading it; keyTables is the reverse index used for cleanup. Entries
	// evicted by the policy linger here until their table is invalidated,
	// so indexed grows above the live cache size; maxIndexed bounds that
	// drift with a full reset.
	tableKeys  map[string]map[uint64]struct{}
	keyTables  map[uint64]map[string]struct{}
	indexed    int
	maxIndexed int
}

// New wraps db with the given cache policy. maxIndexed bounds the
// invalidation index; 0 applies a default of 65536 tracked queries.
func New(db *sql.DB, policy cache.Interface[uint64, *Result], maxIndexed int) *DB {
	if maxIndexed <= 0 {
		maxIndexed = 1 << 16
	}
	return &DB{
		db:         db,
		cache:      policy,
		tableKeys:  make(map[string]map[uint64]struct{}),
		keyTables:  make(map[uint64]map[string]struct{}),
		maxIndexed: maxIndexed,
	}
}

// Unwrap returns the underlying *sql.DB for direct access.
func (c *DB) Unwrap() *sql.DB {
	return c.db
}

// Query executes query. Reads are served from the cache when possible;
// writes execute directly and invalidate the affected table's entries.
func (c *DB) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	tokens := sqlTokens(query)
	if isWrite(tokens) {
		result, err := c.run(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		c.invalidateWrite(tokens)
		return result, nil
	}

	key := cacheKey(query, args...)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	result, err := c.run(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if c.cache.Put(key, result) {
		c.indexTables(key, readTables(tokens))
	}
	return result, nil
}

// Exec executes a statement that returns no rows and invalidates the
// cached reads of the table it writes.
func (c *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querycache: exec failed: %w", err)
	}
	c.invalidateWrite(sqlTokens(query))
	return result, nil
}

// InvalidateTable drops every cached query that reads table.
func (c *DB) InvalidateTable(table string) {
	norm := strings.ToUpper(strings.TrimSpace(table))

	c.mu.Lock()
	keys := make([]uint64, 0, len(c.tableKeys[norm]))
	for k := range c.tableKeys[norm] {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	for _, k := range keys {
		c.cache.Remove(k)
		c.dropKey(k)
	}
}

// InvalidateAll clears the cache and the invalidation index.
func (c *DB) InvalidateAll() {
	c.cache.Purge()
	c.mu.Lock()
	c.resetIndexLocked()
	c.mu.Unlock()
}

// Close clears the cache and closes the underlying connection.
func (c *DB) Close() error {
	c.InvalidateAll()
	return c.db.Close()
}

func (c *DB) run(ctx context.Context, query string, args ...any) (*Result, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querycache: query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("querycache: columns failed: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("querycache: scan failed: %w", err)
		}
		row := make([]any, len(columns))
		for i, v := range values {
			row[i] = copyValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querycache: rows failed: %w", err)
	}
	return result, nil
}

// indexTables records key as a reader of tables. When the index outgrows
// its bound the cache and index reset together, keeping the rule that
// every cached read is reachable from its tables' invalidation sets.
func (c *DB) indexTables(key uint64, tables []string) {
	if len(tables) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexed >= c.maxIndexed {
		c.cache.Purge()
		c.resetIndexLocked()
	}

	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
		if c.tableKeys[t] == nil {
			c.tableKeys[t] = make(map[uint64]struct{})
		}
		c.tableKeys[t][key] = struct{}{}
	}
	if _, known := c.keyTables[key]; !known {
		c.indexed++
	}
	c.keyTables[key] = set
}

func (c *DB) dropKey(key uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for t := range c.keyTables[key] {
		delete(c.tableKeys[t], key)
		if len(c.tableKeys[t]) == 0 {
			delete(c.tableKeys, t)
		}
	}
	if _, known := c.keyTables[key]; known {
		delete(c.keyTables, key)
		c.indexed--
	}
}

func (c *DB) resetIndexLocked() {
	c.tableKeys = make(map[string]map[uint64]struct{})
	c.keyTables = make(map[uint64]map[string]struct{})
	c.indexed = 0
}

func (c *DB) invalidateWrite(tokens []string) {
	table := writeTable(tokens)
	if table == "" {
		c.InvalidateAll()
		return
	}
	c.InvalidateTable(table)
}

// --- cache key generation ---

var hasherPool = sync.Pool{
	New: func() any { return fnv.New64a() },
}

// cacheKey hashes the statement and its arguments with FNV-1a. Arguments
// are type-prefixed so "1" and 1 produce different keys.
func cacheKey(query string, args ...any) uint64 {
	h := hasherPool.Get().(hash.Hash64)
	h.Reset()
	h.Write([]byte(query))
	var buf [8]byte
	for _, arg := range args {
		h.Write([]byte{0})
		writeArg(h, arg, buf[:])
	}
	sum := h.Sum64()
	hasherPool.Put(h)
	return sum
}

func writeArg(h hash.Hash64, arg any, buf []byte) {
	switch v := arg.(type) {
	case nil:
		h.Write([]byte("nil"))
	case string:
		h.Write([]byte("s:"))
		h.Write([]byte(v))
	case []byte:
		h.Write([]byte("B:"))
		h.Write(v)
	case int:
		h.Write([]byte("i:"))
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	case int64:
		h.Write([]byte("I:"))
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	case float64:
		h.Write([]byte("f:"))
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	case bool:
		if v {
			h.Write([]byte("b:1"))
		} else {
			h.Write([]byte("b:0"))
		}
	default:
		fmt.Fprintf(h, "%T:%v", arg, arg)
	}
}

// --- SQL classification helpers ---

var writeKeywords = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"DROP":     true,
	"ALTER":    true,
	"TRUNCATE": true,
	"CREATE":   true,
	"REPLACE":  true,
	"MERGE":    true,
}

var sqlSeparators = strings.NewReplacer(
	"(", " ", ")", " ", ",", " ", ";", " ", "\t", " ", "\r", " ", "\n", " ")

// sqlTokens splits a statement into uppercase tokens with separators and
// single-line comments stripped. Good enough to classify statements and
// find table names; not a SQL parser.
func sqlTokens(query string) []string {
	s := strings.ToUpper(strings.TrimSpace(query))
	if idx := strings.Index(s, "--"); idx >= 0 {
		var b strings.Builder
		for _, line := range strings.Split(s, "\n") {
			if i := strings.Index(line, "--"); i >= 0 {
				line = line[:i]
			}
			b.WriteString(line)
			b.WriteByte(' ')
		}
		s = b.String()
	}
	return strings.Fields(sqlSeparators.Replace(s))
}

func isWrite(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	if writeKeywords[tokens[0]] {
		return true
	}
	if tokens[0] == "WITH" {
		for _, tok := range tokens[1:] {
			if writeKeywords[tok] {
				return true
			}
		}
	}
	return false
}

// writeTable returns the normalized target table of a write statement,
// or "" when it cannot be determined.
func writeTable(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	switch tokens[0] {
	case "INSERT", "REPLACE", "MERGE":
		for i, tok := range tokens {
			if tok == "INTO" && i+1 < len(tokens) {
				return stripSchema(tokens[i+1])
			}
		}
	case "UPDATE":
		if len(tokens) > 1 {
			return stripSchema(tokens[1])
		}
	case "DELETE":
		for i, tok := range tokens {
			if tok == "FROM" && i+1 < len(tokens) {
				return stripSchema(tokens[i+1])
			}
		}
	case "DROP", "ALTER", "TRUNCATE", "CREATE":
		for i, tok := range tokens {
			if tok == "TABLE" && i+1 < len(tokens) {
				next := tokens[i+1]
				if next == "IF" {
					// Skip IF [NOT] EXISTS.
					for j := i + 2; j < len(tokens); j++ {
						if tokens[j] != "NOT" && tokens[j] != "EXISTS" {
							return stripSchema(tokens[j])
						}
					}
					return ""
				}
				return stripSchema(next)
			}
		}
	}
	return ""
}

// readTables returns the tables a read statement references, found after
// FROM and JOIN keywords.
func readTables(tokens []string) []string {
	seen := make(map[string]bool)
	var tables []string
	for i, tok := range tokens {
		if (tok == "FROM" || tok == "JOIN") && i+1 < len(tokens) {
			next := tokens[i+1]
			if next == "SELECT" {
				continue // subquery
			}
			name := stripSchema(next)
			if name != "" && !seen[name] {
				seen[name] = true
				tables = append(tables, name)
			}
		}
	}
	return tables
}

// stripSchema removes quoting and a leading "schema." qualifier.
func stripSchema(name string) string {
	name = strings.Trim(name, "\"`[]")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// copyValue detaches scanned values from driver-internal buffers.
func copyValue(v any) any {
	if b, ok := v.([]byte); ok {
		cp := make([]byte, len(b))
		copy(cp, b)
		return cp
	}
	return v
}

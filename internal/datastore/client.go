package datastore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"sync"
)

var (
	tableNamePattern = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?"?(\w+)"?`)
	columnPKPattern  = regexp.MustCompile(`(?i)[(,]\s*"?(\w+)"?\s+\w+\s+PRIMARY\s+KEY`)
	tablePKPattern   = regexp.MustCompile(`(?i)PRIMARY\s+KEY\s*\(([^)]+)\)`)
)

// DatasetteClient implements the Store interface for remote Datasette instances
// running the datasette-insert plugin.
type DatasetteClient struct {
	baseURL  string
	apiToken string
	client   *http.Client

	mu  sync.Mutex
	pks map[string][]string
}

// NewDatasetteClient creates a new DatasetteClient instance
func NewDatasetteClient(baseURL, apiToken string) *DatasetteClient {
	return &DatasetteClient{
		baseURL:  baseURL,
		apiToken: apiToken,
		client:   &http.Client{},
		pks:      make(map[string][]string),
	}
}

// Connect verifies the base URL of the Datasette instance
func (c *DatasetteClient) Connect() error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL: %q is not an http(s) URL", c.baseURL)
	}
	return nil
}

// CreateTable records the primary key declared in schema. The insert API
// creates the table itself; rows for a table with a known primary key are
// upserted, so repeated exports overwrite rows instead of colliding.
func (c *DatasetteClient) CreateTable(schema string) error {
	m := tableNamePattern.FindStringSubmatch(schema)
	if m == nil {
		return fmt.Errorf("no table name in schema")
	}
	pks := primaryKeys(schema)
	if len(pks) == 0 {
		return nil
	}

	c.mu.Lock()
	c.pks[m[1]] = pks
	c.mu.Unlock()
	return nil
}

func primaryKeys(schema string) []string {
	if m := tablePKPattern.FindStringSubmatch(schema); m != nil {
		var pks []string
		for _, col := range strings.Split(m[1], ",") {
			pks = append(pks, strings.Trim(strings.TrimSpace(col), `"`))
		}
		return pks
	}
	if m := columnPKPattern.FindStringSubmatch(schema); m != nil {
		return []string{m[1]}
	}
	return nil
}

// ResetTable is a no-op; the insert API cannot truncate. Rows from an
// earlier, larger export stay in place.
func (c *DatasetteClient) ResetTable(table string) error {
	return nil
}

// BatchInsert sends records to the Datasette insert API
func (c *DatasetteClient) BatchInsert(database string, table string, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join(u.Path, "-/insert", database, table)

	c.mu.Lock()
	pks := c.pks[table]
	c.mu.Unlock()
	if len(pks) > 0 {
		q := u.Query()
		for _, pk := range pks {
			q.Add("pk", pk)
		}
		q.Set("upsert", "1")
		u.RawQuery = q.Encode()
	}

	payload := map[string]any{
		"rows": records,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, u.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("API error: %v", errResp)
	}

	return nil
}

// Close is a no-op for the HTTP client
func (c *DatasetteClient) Close() error {
	return nil
}

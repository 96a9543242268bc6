package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"bookingId": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanValue(actual)

	var expected any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

// cleanValue drops fields whose values differ between runs.
func cleanValue(v any) {
	switch v := v.(type) {
	case map[string]any:
		for k := range v {
			if _, ok := keysToIgnore[k]; ok {
				delete(v, k)
				continue
			}
			cleanValue(v[k])
		}
	case []any:
		for _, item := range v {
			cleanValue(item)
		}
	}
}

func jsonBody(t testing.TB, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func truncateAll(t testing.TB, db *pgxpool.Pool) {
	t.Helper()

	_, err := db.Exec(context.Background(), `TRUNCATE bookings, showtimes, movies RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func insertMovie(t testing.TB, db *pgxpool.Pool, title string, duration int) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO movies (title, genre, duration, rating, release_year)
		VALUES ($1, 'Drama', $2, 7.5, 2020)
		RETURNING id`, title, duration).Scan(&id)
	require.NoError(t, err)

	return id
}

func insertShowtime(t testing.TB, db *pgxpool.Pool, movieID int64, theater string, start, end time.Time) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO showtimes (id, movie_id, theater, start_time, end_time, price)
		VALUES (nextval('showtimes_id_seq'), $1, $2, $3, $4, 10)
		RETURNING id`, movieID, theater, start, end).Scan(&id)
	require.NoError(t, err)

	return id
}

func countRows(t testing.TB, db *pgxpool.Pool, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&n))

	return n
}

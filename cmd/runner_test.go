package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"crate/internal/models"
	"crate/internal/services"
	"crate/internal/shared"
	tu "crate/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			client := services.NewAPIClient(services.APIClientOpts{
				SessionPath: filepath.Join(t.TempDir(), "session.json"),
			})

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Client:     client,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil client builds one from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.client == nil {
				t.Error("expected a default API client to be built")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

// collectionServer serves a fixed record list in the API envelope, ignoring auth.
func collectionServer(t *testing.T, records []models.RecordData) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": records})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRunner(t *testing.T, baseURL string) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	client := services.NewAPIClient(services.APIClientOpts{
		BaseURL:     baseURL,
		SessionPath: filepath.Join(t.TempDir(), "session.json"),
	})
	runner := NewRunner(RunnerOpts{Client: client, Output: output})
	return runner, output
}

func TestRecordsList(t *testing.T) {
	records := []models.RecordData{
		{ID: "rec-1", Artist: "John Coltrane", Album: "Blue Train", Year: 1957, Label: "Blue Note", Genres: []string{"Jazz"}},
	}

	run := func(t *testing.T, format string) string {
		server := collectionServer(t, records)
		runner, output := newTestRunner(t, server.URL)

		cmd := &cli.Command{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Value: format},
			},
			Action: runner.RecordsList,
		}
		if err := cmd.Run(context.Background(), []string{"list"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return output.String()
	}

	t.Run("Table Format", func(t *testing.T) {
		got := run(t, "table")
		if !strings.Contains(got, "ARTIST") || !strings.Contains(got, "Blue Train") {
			t.Errorf("unexpected table output: %s", got)
		}
		if !strings.Contains(got, "1 records") {
			t.Errorf("expected record count, got: %s", got)
		}
	})

	t.Run("Markdown Format", func(t *testing.T) {
		got := run(t, "markdown")
		if !strings.Contains(got, "| John Coltrane | Blue Train | 1957 | Blue Note | Jazz |") {
			t.Errorf("unexpected markdown output: %s", got)
		}
	})

	t.Run("JSON Format", func(t *testing.T) {
		got := run(t, "json")
		var decoded []models.RecordData
		if err := json.Unmarshal([]byte(got), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded) != 1 || decoded[0].ID != "rec-1" {
			t.Errorf("unexpected decoded records: %+v", decoded)
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		server := collectionServer(t, records)
		runner, _ := newTestRunner(t, server.URL)

		cmd := &cli.Command{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Value: "yaml"},
			},
			Action: runner.RecordsList,
		}
		if err := cmd.Run(context.Background(), []string{"list"}); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestIsBarcode(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"724349532724", true},
		{"0724349532724", true},
		{"12345678", true},
		{"1234567", false},
		{"123456789012345", false},
		{"72434953272a", false},
		{"https://www.discogs.com/release/1234", false},
	}

	for _, c := range cases {
		if got := isBarcode(c.input); got != c.want {
			t.Errorf("isBarcode(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

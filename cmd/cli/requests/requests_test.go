package requests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	cliconfig "github.com/assetflow/assetflow/cmd/cli/config"
	"github.com/assetflow/assetflow/internal/models"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func setupCLI(t *testing.T, url string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ASSETFLOW_API_URL", url)
	if err := cliconfig.SaveToken("test-token"); err != nil {
		t.Fatalf("save token: %v", err)
	}
}

func TestListRequests_TableOutput(t *testing.T) {
	assetID := 10
	comment := "confirmed with IT"
	requests := []models.DeletionRequest{
		{ID: 11, AssetID: &assetID, AssetName: "laptop", Status: "approved", RequestedBy: 7, ReviewComment: &comment},
		{ID: 12, AssetName: "old printer", Status: "pending", RequestedBy: 7},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/requests" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		_ = json.NewEncoder(w).Encode(requests)
	}))
	defer srv.Close()

	setupCLI(t, srv.URL)

	cmd := listRequestsCmd()
	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, []string{}); err != nil {
			t.Errorf("run: %v", err)
		}
	})

	if !strings.Contains(out, "laptop") || !strings.Contains(out, "old printer") {
		t.Fatalf("expected asset names in output, got: %s", out)
	}
	// A request whose asset is already deleted renders "-" for the asset id.
	if !strings.Contains(out, "-") {
		t.Fatalf("expected placeholder for deleted asset, got: %s", out)
	}
}

func TestSubmitRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/requests" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var input struct {
			AssetID       int    `json:"asset_id"`
			Justification string `json:"justification"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if input.AssetID != 10 || input.Justification != "broken beyond repair" {
			t.Fatalf("unexpected body: %+v", input)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.DeletionRequest{ID: 11, AssetName: "laptop", Status: "pending"})
	}))
	defer srv.Close()

	setupCLI(t, srv.URL)

	cmd := submitRequestCmd()
	_ = cmd.Flags().Set("asset", "10")
	_ = cmd.Flags().Set("justification", "broken beyond repair")

	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, []string{}); err != nil {
			t.Errorf("run: %v", err)
		}
	})

	if !strings.Contains(out, "request 11") {
		t.Fatalf("expected confirmation, got: %s", out)
	}
}

func TestApproveRequest_CommentOnlySentWhenSet(t *testing.T) {
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/requests/11/approve" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotBody = nil
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Fatalf("decode body: %v", err)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"request":       models.DeletionRequest{ID: 11, Status: "approved"},
			"asset_deleted": true,
		})
	}))
	defer srv.Close()

	setupCLI(t, srv.URL)

	// Without --comment the request body carries no comment key at all, so
	// the server stores NULL rather than an empty string.
	cmd := approveRequestCmd()
	captureOutput(t, func() {
		if err := cmd.RunE(cmd, []string{"11"}); err != nil {
			t.Errorf("run: %v", err)
		}
	})
	if _, ok := gotBody["comment"]; ok {
		t.Fatalf("comment key sent without flag: %s", gotBody["comment"])
	}

	cmd = approveRequestCmd()
	_ = cmd.Flags().Set("comment", "confirmed with IT")
	captureOutput(t, func() {
		if err := cmd.RunE(cmd, []string{"11"}); err != nil {
			t.Errorf("run: %v", err)
		}
	})
	var comment string
	if err := json.Unmarshal(gotBody["comment"], &comment); err != nil || comment != "confirmed with IT" {
		t.Fatalf("comment: got %s", gotBody["comment"])
	}
}

func TestCancelRequest_ErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "deletion request 11 is approved, not pending"})
	}))
	defer srv.Close()

	setupCLI(t, srv.URL)

	cmd := cancelRequestCmd()
	err := cmd.RunE(cmd, []string{"11"})
	if err == nil || !strings.Contains(err.Error(), "409") {
		t.Fatalf("expected conflict error, got: %v", err)
	}
}

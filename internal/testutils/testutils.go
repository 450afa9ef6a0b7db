package testutils

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	language "cloud.google.com/go/language/apiv1"
	"github.com/areknoster/hypert"
	oai "github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"github.com/datar-psa/lazarsfeld/gemini"
	"github.com/datar-psa/lazarsfeld/openai"
)

// ShouldUpdate returns true if tests should update cached HTTP responses
// Set UPDATE_TESTS=true environment variable to update cached responses
func ShouldUpdate() bool {
	return os.Getenv("UPDATE_TESTS") == "true"
}

// HypertClientConfig configures hypert client creation
type HypertClientConfig struct {
	TestDataDir string
	SubDir      string // Optional subdirectory for organizing test data
}

func (c HypertClientConfig) dir() string {
	if c.SubDir == "" {
		return c.TestDataDir
	}
	return filepath.Join(c.TestDataDir, c.SubDir)
}

// RequireRecordings skips the test when it would replay from a directory that holds no recordings.
func RequireRecordings(t *testing.T, config HypertClientConfig) {
	t.Helper()
	if ShouldUpdate() {
		return
	}
	entries, err := os.ReadDir(config.dir())
	if err != nil || len(entries) == 0 {
		t.Skipf("no recorded responses in %s; run with UPDATE_TESTS=true to record", config.dir())
	}
}

func newRecorder(t *testing.T, config HypertClientConfig) *http.Client {
	namingScheme, err := hypert.NewContentHashNamingScheme(config.dir())
	if err != nil {
		t.Fatalf("failed to create naming scheme: %v", err)
	}

	return hypert.TestClient(t, ShouldUpdate(),
		hypert.WithNamingScheme(namingScheme),
		hypert.WithRequestValidator(hypert.ComposedRequestValidator(
			hypert.PathValidator(),
			hypert.QueryParamsValidator(),
			hypert.MethodValidator(),
		)),
	)
}

// NewHypertClient creates a new hypert client for caching HTTP requests.
// In record mode requests are authenticated with Google application default credentials.
func NewHypertClient(t *testing.T, config HypertClientConfig) *http.Client {
	hypertClient := newRecorder(t, config)
	if !ShouldUpdate() {
		return hypertClient
	}

	ctx := context.Background()
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		t.Fatalf("failed to get default credentials: %v", err)
	}
	return oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hypertClient), creds.TokenSource)
}

// quotaProjectTransport wraps an http.RoundTripper to add quota project header
type quotaProjectTransport struct {
	base      http.RoundTripper
	projectID string
}

func (t *quotaProjectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Goog-User-Project", t.projectID)
	return t.base.RoundTrip(req)
}

// NewAuthenticatedHypertClient is NewHypertClient with the quota project header set while recording.
// Cloud Natural Language requires it with user credentials.
func NewAuthenticatedHypertClient(t *testing.T, config HypertClientConfig, projectID string) *http.Client {
	client := NewHypertClient(t, config)
	if !ShouldUpdate() {
		return client
	}
	return &http.Client{
		Transport: &quotaProjectTransport{base: client.Transport, projectID: projectID},
		Timeout:   client.Timeout,
	}
}

// GoogleTestConfig configures Google client creation for tests
type GoogleTestConfig struct {
	Project  string
	Location string
	SubDir   string // Subdirectory for hypert test data
}

// DefaultGoogleTestConfig reads the project and region from GOOGLE_PROJECT_ID and GOOGLE_REGION.
func DefaultGoogleTestConfig(subDir string) GoogleTestConfig {
	return GoogleTestConfig{
		Project:  os.Getenv("GOOGLE_PROJECT_ID"),
		Location: os.Getenv("GOOGLE_REGION"),
		SubDir:   subDir,
	}
}

// NewGeminiClient creates a new Gemini client for testing with hypert caching
func NewGeminiClient(t *testing.T, config GoogleTestConfig) *genai.Client {
	cfg := HypertClientConfig{TestDataDir: "testdata", SubDir: config.SubDir}
	RequireRecordings(t, cfg)

	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		Backend:    genai.BackendVertexAI,
		Project:    config.Project,
		Location:   config.Location,
		HTTPClient: NewHypertClient(t, cfg),
	})
	if err != nil {
		t.Fatalf("failed to create genai client: %v", err)
	}
	return genaiClient
}

// NewGeminiTokenSource creates a Gemini token source for testing
func NewGeminiTokenSource(t *testing.T, config GoogleTestConfig) *gemini.TokenSource {
	return gemini.NewTokenSource(NewGeminiClient(t, config), gemini.TokenSourceOptions{})
}

// NewLanguageModerator creates a Cloud Natural Language moderator over REST with hypert caching
func NewLanguageModerator(t *testing.T, config GoogleTestConfig) *gemini.LanguageModerator {
	cfg := HypertClientConfig{TestDataDir: "testdata", SubDir: config.SubDir}
	RequireRecordings(t, cfg)

	client, err := language.NewRESTClient(context.Background(),
		option.WithHTTPClient(NewAuthenticatedHypertClient(t, cfg, config.Project)))
	if err != nil {
		t.Fatalf("failed to create language client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return gemini.NewLanguageModerator(client)
}

// NewOpenAITokenSource creates an OpenAI token source for testing with hypert caching.
// Recording needs OPENAI_API_KEY; replay does not.
func NewOpenAITokenSource(t *testing.T, subDir string) *openai.TokenSource {
	cfg := HypertClientConfig{TestDataDir: "testdata", SubDir: subDir}
	RequireRecordings(t, cfg)

	key := "replay"
	if ShouldUpdate() {
		key = os.Getenv("OPENAI_API_KEY")
		if key == "" {
			t.Fatal("OPENAI_API_KEY is required to record OpenAI responses")
		}
	}

	client := oai.NewClient(
		oaioption.WithAPIKey(key),
		oaioption.WithHTTPClient(newRecorder(t, cfg)),
		oaioption.WithMaxRetries(0),
	)
	return openai.NewTokenSource(&client, openai.TokenSourceOptions{})
}

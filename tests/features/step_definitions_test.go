package features

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cucumber/godog"

	"github.com/zeddo123/mlsolid-go/internal/logging"
	"github.com/zeddo123/mlsolid-go/pkg/api"
	"github.com/zeddo123/mlsolid-go/pkg/mlsolid"
)

// memoryRemote is an in-process mlsolid server: runs, metrics, artifacts
// and registries live in maps, and errors carry the same gRPC status
// codes the real transport would.
type memoryRemote struct {
	calls      int
	runs       map[string]string // run id -> experiment id
	metrics    map[string][]api.Metric
	artifacts  map[string]api.Artifact // "<run id>/<name>"
	registries map[string]map[string]string
	rejectWith error
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{
		runs:       make(map[string]string),
		metrics:    make(map[string][]api.Metric),
		artifacts:  make(map[string]api.Artifact),
		registries: make(map[string]map[string]string),
	}
}

func (m *memoryRemote) CreateRun(_ context.Context, runID string, experimentID string) error {
	m.calls++
	if _, exists := m.runs[runID]; exists {
		return status.Error(codes.AlreadyExists, "run id taken")
	}
	m.runs[runID] = experimentID
	return nil
}

func (m *memoryRemote) AddMetrics(_ context.Context, runID string, metrics []api.Metric) error {
	m.calls++
	if m.rejectWith != nil {
		return m.rejectWith
	}
	if _, exists := m.runs[runID]; !exists {
		return status.Error(codes.NotFound, "run not found")
	}
	m.metrics[runID] = append(m.metrics[runID], metrics...)
	return nil
}

func (m *memoryRemote) AddArtifact(_ context.Context, frames iter.Seq[api.Frame]) error {
	m.calls++
	var artifact api.Artifact
	for frame := range frames {
		if frame.IsMeta() {
			artifact.RunID = frame.Meta.RunID
			artifact.Kind = frame.Meta.Kind
			artifact.Name = frame.Meta.Name
			continue
		}
		artifact.Content = append(artifact.Content, frame.Content...)
	}
	if artifact.Name == "" {
		return status.Error(codes.InvalidArgument, "missing metadata frame")
	}
	m.artifacts[artifact.RunID+"/"+artifact.Name] = artifact
	return nil
}

func (m *memoryRemote) Artifact(_ context.Context, runID string, name string) (api.FrameStream, error) {
	m.calls++
	artifact, ok := m.artifacts[runID+"/"+name]
	if !ok {
		return nil, status.Error(codes.NotFound, "artifact not found")
	}
	return newMemoryStream(artifact), nil
}

func (m *memoryRemote) CreateModelRegistry(_ context.Context, name string) (bool, error) {
	m.calls++
	if _, exists := m.registries[name]; exists {
		return false, nil
	}
	m.registries[name] = make(map[string]string)
	return true, nil
}

func (m *memoryRemote) AddModelEntry(_ context.Context, registryName string, artifactID string, _ string, tags []string) (bool, error) {
	m.calls++
	registry, ok := m.registries[registryName]
	if !ok {
		return false, status.Error(codes.NotFound, "registry not found")
	}
	for _, tag := range tags {
		registry[tag] = artifactID
	}
	return true, nil
}

func (m *memoryRemote) StreamTaggedModel(_ context.Context, registryName string, tag string) (api.FrameStream, error) {
	m.calls++
	registry, ok := m.registries[registryName]
	if !ok {
		return nil, status.Error(codes.NotFound, "registry not found")
	}
	key, ok := registry[tag]
	if !ok {
		return nil, status.Error(codes.NotFound, "tag not found")
	}
	artifact, ok := m.artifacts[key]
	if !ok {
		return nil, status.Error(codes.Internal, "registry entry points at a missing artifact")
	}
	return newMemoryStream(artifact), nil
}

func (m *memoryRemote) Experiments(_ context.Context) ([]string, error) {
	m.calls++
	seen := make(map[string]bool)
	var ids []string
	for _, experimentID := range m.runs {
		if !seen[experimentID] {
			seen[experimentID] = true
			ids = append(ids, experimentID)
		}
	}
	return ids, nil
}

func (m *memoryRemote) Experiment(_ context.Context, experimentID string) ([]string, error) {
	m.calls++
	var ids []string
	for runID, expID := range m.runs {
		if expID == experimentID {
			ids = append(ids, runID)
		}
	}
	return ids, nil
}

func (m *memoryRemote) Run(_ context.Context, runID string) (api.Run, error) {
	m.calls++
	if _, exists := m.runs[runID]; !exists {
		return api.Run{}, status.Error(codes.NotFound, "run not found")
	}
	return api.Run{ID: runID, ExperimentID: m.runs[runID], Metrics: m.metrics[runID]}, nil
}

type memoryStream struct {
	frames []api.Frame
	pos    int
}

func newMemoryStream(artifact api.Artifact) *memoryStream {
	frames := []api.Frame{api.MetadataFrame(artifact)}
	frames = append(frames, api.ContentFrame(artifact.Content))
	return &memoryStream{frames: frames}
}

func (s *memoryStream) Recv() (api.Frame, error) {
	if s.pos >= len(s.frames) {
		return api.Frame{}, io.EOF
	}
	frame := s.frames[s.pos]
	s.pos++
	return frame, nil
}

// scenarioState is rebuilt per scenario so scenarios cannot leak data
// into each other.
type scenarioState struct {
	remote  *memoryRemote
	client  *mlsolid.Client
	session *mlsolid.RunSession
	lastErr error
	workDir string
}

func (sc *scenarioState) reset(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
	logger, _, err := logging.NewLogger()
	if err != nil {
		logger = logging.FallbackLogger()
	}
	sc.remote = newMemoryRemote()
	sc.workDir, _ = os.MkdirTemp("", "mlsolid-features-")
	sc.client = mlsolid.NewClient(sc.remote).WithWorkDir(sc.workDir).WithLogger(logger)
	sc.session = nil
	sc.lastErr = nil
	return ctx, nil
}

func (sc *scenarioState) cleanup(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
	if sc.workDir != "" {
		os.RemoveAll(sc.workDir)
	}
	return ctx, nil
}

func (sc *scenarioState) aConnectedTrackingClient() error {
	if sc.client == nil {
		return fmt.Errorf("client was not set up")
	}
	return nil
}

func (sc *scenarioState) theServerRejectsMetricUploads() error {
	sc.remote.rejectWith = status.Error(codes.Internal, "storage down")
	return nil
}

func (sc *scenarioState) iStartARunInExperiment(experimentID string) error {
	session, err := sc.client.StartRun(context.Background(), experimentID, false)
	if err != nil {
		return err
	}
	sc.session = session
	return nil
}

func (sc *scenarioState) iStartADryRunInExperiment(experimentID string) error {
	session, err := sc.client.StartRun(context.Background(), experimentID, true)
	if err != nil {
		return err
	}
	sc.session = session
	return nil
}

func (sc *scenarioState) iLogMetricValue(name, value string) error {
	if number, err := strconv.ParseFloat(value, 64); err == nil {
		sc.session.Log(name, number)
	} else {
		sc.session.Log(name, value)
	}
	return nil
}

func (sc *scenarioState) iStageATextArtifactWithContent(name, content string) error {
	return sc.session.StageArtifact(api.Artifact{
		Name:    name,
		Kind:    api.ArtifactKindPlainText,
		Content: []byte(content),
	})
}

func (sc *scenarioState) iCommitTheRun() error {
	sc.lastErr = sc.session.Commit(context.Background())
	return nil
}

func (sc *scenarioState) iDiscardTheRun() error {
	sc.session.Discard()
	return nil
}

func (sc *scenarioState) iDownloadArtifact(name string) error {
	_, sc.lastErr = sc.client.DownloadArtifact(context.Background(), sc.session.RunID(), name)
	return sc.lastErr
}

func (sc *scenarioState) theCommitShouldSucceed() error {
	return sc.lastErr
}

func (sc *scenarioState) theCommitShouldFailAsAnInternalError() error {
	if sc.lastErr == nil {
		return fmt.Errorf("expected the commit to fail")
	}
	if !mlsolid.IsInternal(sc.lastErr) {
		return fmt.Errorf("expected an internal error, got %v", sc.lastErr)
	}
	return nil
}

func (sc *scenarioState) theServerHoldsMetricsForTheRun(count int) error {
	metrics := sc.remote.metrics[sc.session.RunID()]
	if len(metrics) != count {
		return fmt.Errorf("expected %d metrics, got %d: %v", count, len(metrics), metrics)
	}
	return nil
}

func (sc *scenarioState) theMetricShouldHaveKind(name, kind string) error {
	for _, metric := range sc.remote.metrics[sc.session.RunID()] {
		if metric.Name == name {
			if string(metric.Kind) != kind {
				return fmt.Errorf("expected kind %s for metric %s, got %s", kind, name, metric.Kind)
			}
			return nil
		}
	}
	return fmt.Errorf("metric %s was not uploaded", name)
}

func (sc *scenarioState) theServerHoldsArtifactWithContent(name, content string) error {
	artifact, ok := sc.remote.artifacts[sc.session.RunID()+"/"+name]
	if !ok {
		return fmt.Errorf("artifact %s was not uploaded", name)
	}
	if string(artifact.Content) != content {
		return fmt.Errorf("expected content %q, got %q", content, artifact.Content)
	}
	return nil
}

func (sc *scenarioState) theServerReceivedNoCalls() error {
	if sc.remote.calls != 0 {
		return fmt.Errorf("expected no server calls, counted %d", sc.remote.calls)
	}
	return nil
}

func (sc *scenarioState) aFileNamedShouldExistInTheWorkDirectoryWithContent(name, content string) error {
	path := filepath.Join(sc.workDir, "artifacts", name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if string(data) != content {
		return fmt.Errorf("expected content %q, got %q", content, data)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	sc := new(scenarioState)

	ctx.Before(sc.reset)
	ctx.After(sc.cleanup)

	ctx.Step(`^a connected tracking client$`, sc.aConnectedTrackingClient)
	ctx.Step(`^the server rejects metric uploads$`, sc.theServerRejectsMetricUploads)
	ctx.Step(`^I start a run in experiment "([^"]*)"$`, sc.iStartARunInExperiment)
	ctx.Step(`^I start a dry run in experiment "([^"]*)"$`, sc.iStartADryRunInExperiment)
	ctx.Step(`^I log metric "([^"]*)" value "([^"]*)"$`, sc.iLogMetricValue)
	ctx.Step(`^I stage a text artifact "([^"]*)" with content "([^"]*)"$`, sc.iStageATextArtifactWithContent)
	ctx.Step(`^I commit the run$`, sc.iCommitTheRun)
	ctx.Step(`^I discard the run$`, sc.iDiscardTheRun)
	ctx.Step(`^I download artifact "([^"]*)"$`, sc.iDownloadArtifact)
	ctx.Step(`^the commit should succeed$`, sc.theCommitShouldSucceed)
	ctx.Step(`^the commit should fail as an internal error$`, sc.theCommitShouldFailAsAnInternalError)
	ctx.Step(`^the server holds (\d+) metrics? for the run$`, sc.theServerHoldsMetricsForTheRun)
	ctx.Step(`^the metric "([^"]*)" should have kind "([^"]*)"$`, sc.theMetricShouldHaveKind)
	ctx.Step(`^the server holds artifact "([^"]*)" with content "([^"]*)"$`, sc.theServerHoldsArtifactWithContent)
	ctx.Step(`^the server received no calls$`, sc.theServerReceivedNoCalls)
	ctx.Step(`^a file named "([^"]*)" should exist in the work directory with content "([^"]*)"$`, sc.aFileNamedShouldExistInTheWorkDirectoryWithContent)
}

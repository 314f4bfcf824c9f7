package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maypok86/trafficgen/internal/config"
	"github.com/maypok86/trafficgen/internal/report"
	"github.com/maypok86/trafficgen/internal/trace"
)

func writeRanking(t *testing.T, dir string, n int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("\"Rank\",\"Domain\",\"Open Page Rank\"\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "\"%d\",\"site%d.com\",\"%.2f\"\n", i, i, 10-float64(i)/float64(n))
	}

	path := filepath.Join(dir, "top10milliondomains.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func newConfig(t *testing.T, iterations int) config.Config {
	t.Helper()

	dir := t.TempDir()
	c := config.Default()
	c.Iterations = iterations
	c.TotalCustomers = 50
	c.RankingPath = writeRanking(t, dir, 2000)
	c.OutputDirectory = filepath.Join(dir, "output")
	c.StartTime = "2024-01-05T16:00:00"
	c.Seed = "test"
	c.ProgressEvery = 0
	return c
}

type line struct {
	Timestamp string `json:"@timestamp"`
	ClientIP  string `json:"clientIp"`
	Domain    string `json:"domain"`
}

func readLines(t *testing.T, path string) []line {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []line
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &l))
		lines = append(lines, l)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, 3000)
	run, err := New(cfg, zap.NewNop(), nil).WithLocation(time.UTC).Run(context.Background())
	require.NoError(t, err)

	lines := readLines(t, filepath.Join(cfg.OutputDirectory, UserActivityFile))
	require.Len(t, lines, 3000)

	prev := ""
	clients := make(map[string]struct{})
	for _, l := range lines {
		require.GreaterOrEqual(t, l.Timestamp, prev)
		prev = l.Timestamp
		clients[l.ClientIP] = struct{}{}
		require.NotEmpty(t, l.Domain)
	}
	require.LessOrEqual(t, len(clients), cfg.TotalCustomers)
	require.Equal(t, "2024-01-05T16:00:00.000", run.StartTime.Format("2006-01-02T15:04:05.000"))
	require.Equal(t, lines[len(lines)-1].Timestamp, run.EndTime.Format("2006-01-02T15:04:05.000"))

	require.Equal(t, uint64(3000), run.Stats.Events)
	require.Equal(t, uint64(3000), run.Stats.Picks+run.Stats.UnknownPicks)
	require.Greater(t, run.Stats.Top100, run.Stats.Picks/20)

	for _, name := range []string{
		RankingJSONFile,
		RankingJSONFile + ".zst",
		UserActivityFile + ".zst",
		report.StatsFile,
		report.ChartFile,
		report.MetricsFile,
	} {
		_, err := os.Stat(filepath.Join(cfg.OutputDirectory, name))
		require.NoError(t, err, name)
	}

	content, err := os.ReadFile(filepath.Join(cfg.OutputDirectory, report.StatsFile))
	require.NoError(t, err)
	require.Equal(t, run.String(), string(content))
	require.Contains(t, string(content), "Unknown Sites    : 10.0%")
}

func TestApp_Reproducible(t *testing.T) {
	t.Parallel()

	a := newConfig(t, 500)
	b := newConfig(t, 500)

	_, err := New(a, nil, nil).WithLocation(time.UTC).Run(context.Background())
	require.NoError(t, err)
	_, err = New(b, nil, nil).WithLocation(time.UTC).Run(context.Background())
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(a.OutputDirectory, UserActivityFile))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(b.OutputDirectory, UserActivityFile))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestApp_Idempotent(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, 200)
	_, err := New(cfg, nil, nil).WithLocation(time.UTC).Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(cfg.OutputDirectory, UserActivityFile)
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	infoBefore, err := os.Stat(path)
	require.NoError(t, err)

	cfg.Seed = "another seed"
	run, err := New(cfg, nil, nil).WithLocation(time.UTC).Run(context.Background())
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	infoAfter, err := os.Stat(path)
	require.NoError(t, err)

	require.Equal(t, before, after)
	require.Equal(t, infoBefore.ModTime(), infoAfter.ModTime())
	require.Zero(t, run.Stats.Picks)
	require.Zero(t, run.Stats.Events)
	require.Equal(t, run.StartTime, run.EndTime)
	require.Equal(t, int64(len(before)), run.Sizes.UserActivity)
}

func TestApp_ZeroIterations(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, 0)
	cfg.Codec = trace.NoneCodec
	cfg.Chart = false
	cfg.Metrics = false

	run, err := New(cfg, nil, nil).WithLocation(time.UTC).Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, run.Stats.Picks)
	require.Zero(t, run.Sizes.UserActivity)

	content, err := os.ReadFile(filepath.Join(cfg.OutputDirectory, report.StatsFile))
	require.NoError(t, err)
	require.NotContains(t, string(content), "NaN")
	require.Contains(t, string(content), "0.0%")

	_, err = os.Stat(filepath.Join(cfg.OutputDirectory, UserActivityFile+".zst"))
	require.True(t, os.IsNotExist(err))
}

func TestApp_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, 10)
	cfg.PercentUnknownSites = 2
	_, err := New(cfg, nil, nil).Run(context.Background())
	require.ErrorIs(t, err, config.ErrConfiguration)

	cfg = newConfig(t, 10)
	cfg.BaselineMeanMs = 0
	_, err = New(cfg, nil, nil).Run(context.Background())
	require.ErrorIs(t, err, config.ErrConfiguration)

	cfg = newConfig(t, 10)
	require.NoError(t, os.WriteFile(cfg.RankingPath, []byte("\"Rank\",\"Domain\",\"Open Page Rank\"\n"), 0o600))
	_, err = New(cfg, nil, nil).Run(context.Background())
	require.ErrorIs(t, err, config.ErrConfiguration)

	// nothing is produced when the configuration is rejected
	_, err = os.Stat(filepath.Join(cfg.OutputDirectory, UserActivityFile))
	require.True(t, os.IsNotExist(err))
}

func TestApp_CanceledLeavesNoArtifact(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg, nil, nil).WithLocation(time.UTC).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	for _, name := range []string{
		UserActivityFile, UserActivityFile + ".tmp",
		RankingJSONFile, RankingJSONFile + ".tmp",
	} {
		_, err = os.Stat(filepath.Join(cfg.OutputDirectory, name))
		require.True(t, os.IsNotExist(err), name)
	}
}

func TestApp_CanceledDuringCompression(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, 500)
	cfg.Codec = trace.NoneCodec
	_, err := New(cfg, nil, nil).WithLocation(time.UTC).Run(context.Background())
	require.NoError(t, err)

	// the uncompressed artifacts exist, so only compression is left to do
	cfg.Codec = trace.ZstdCodec
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = New(cfg, nil, nil).WithLocation(time.UTC).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	for _, name := range []string{UserActivityFile, RankingJSONFile} {
		for _, suffix := range []string{".zst", ".zst.tmp"} {
			_, err = os.Stat(filepath.Join(cfg.OutputDirectory, name+suffix))
			require.True(t, os.IsNotExist(err), name+suffix)
		}
		_, err = os.Stat(filepath.Join(cfg.OutputDirectory, name))
		require.NoError(t, err, name)
	}
}

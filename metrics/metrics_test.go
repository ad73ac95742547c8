// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	// all meters are callable and do nothing
	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"k"}).AddWithLabel(1, map[string]string{"k": "v"})
	Gauge("noop_gauge").Set(100)
	Histogram("noop_hist", nil).Observe(5)
	HistogramVec("noop_hist_vec", []string{"k"}, nil).ObserveWithLabels(5, map[string]string{"k": "v"})

	assert.Nil(t, HTTPHandler())
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("test_count").Add(3)
	CounterVec("test_count_vec", []string{"kind"}).AddWithLabel(2, map[string]string{"kind": "stake"})
	Gauge("test_gauge").Set(7)
	Histogram("test_hist", BucketDays).Observe(3)
	HistogramVec("test_hist_vec", []string{"code"}, BucketHTTPReqs).
		ObserveWithLabels(12, map[string]string{"code": "200"})

	// meters are cached by name
	assert.Equal(t, Counter("test_count"), Counter("test_count"))

	srv := httptest.NewServer(HTTPHandler())
	defer srv.Close()

	res, err := http.Get(srv.URL) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), "veil_metrics_test_count 3"))
	assert.True(t, strings.Contains(string(body), `veil_metrics_test_count_vec{kind="stake"} 2`))
	assert.True(t, strings.Contains(string(body), "veil_metrics_test_gauge 7"))
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	lazy := LazyLoad(func() int {
		calls++
		return 42
	})

	assert.Equal(t, 42, lazy())
	assert.Equal(t, 42, lazy())
	assert.Equal(t, 1, calls)
}

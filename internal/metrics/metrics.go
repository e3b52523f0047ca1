// Package metrics exposes prometheus instrumentation for indexing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every classidx collector.
var Registry = prometheus.NewRegistry()

var (
	// SourcesScanned counts bulk scans by source kind (archive, directory, package).
	SourcesScanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classidx_sources_scanned_total",
			Help: "Number of archives, directories and packages scanned.",
		},
		[]string{"kind"},
	)

	// ClassesIndexed counts class records added, by origin (scan, enrich).
	ClassesIndexed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classidx_classes_indexed_total",
			Help: "Number of class records added to an index.",
		},
		[]string{"origin"},
	)

	// Resolutions counts artifact resolutions by result (resolved, ambiguous, missing).
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classidx_resolutions_total",
			Help: "Number of coordinate resolutions by result.",
		},
		[]string{"result"},
	)

	// ScanDuration observes the time spent scanning one source.
	ScanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classidx_scan_duration_seconds",
			Help:    "Time taken to scan one archive, directory or package.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// OpenArchives tracks archive handles currently held by application archives.
	OpenArchives = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "classidx_open_archives",
			Help: "Number of archive handles currently open.",
		},
	)
)

// Source kinds.
const (
	KindArchive   = "archive"
	KindDirectory = "directory"
	KindPackage   = "package"
)

// Class origins.
const (
	OriginScan   = "scan"
	OriginEnrich = "enrich"
)

// Resolution results.
const (
	ResultResolved  = "resolved"
	ResultAmbiguous = "ambiguous"
	ResultMissing   = "missing"
)

func init() {
	Registry.MustRegister(
		SourcesScanned,
		ClassesIndexed,
		Resolutions,
		ScanDuration,
		OpenArchives,
	)
}

// WriteTextfile writes the current metric values in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

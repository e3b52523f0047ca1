package scan

import (
	"strings"
	"time"

	"github.com/opmodel/classidx/internal/classfile"
	"github.com/opmodel/classidx/internal/classpath"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/metrics"
	"github.com/opmodel/classidx/internal/output"
)

// Packages indexes the classes found below each named package on the
// classpath. It is best effort: a package that cannot be enumerated or a
// class that cannot be read is logged and skipped. The first definition of a
// class in classpath order wins. Packages returns the problems it skipped.
func Packages(cp *classpath.Classpath, packages []string) (*index.ClassIndex, []error) {
	ix := index.NewClassIndex()
	var skipped []error

	for _, pkg := range packages {
		start := time.Now()
		dir := classfile.NameToInternal(strings.TrimSpace(pkg))
		resources, err := cp.List(dir)
		if err != nil {
			output.Warn("skipping package", "package", pkg, "error", err)
			skipped = append(skipped, err)
			continue
		}
		if len(resources) == 0 {
			output.Warn("package not found on classpath", "package", pkg)
			continue
		}

		added := 0
		for _, res := range resources {
			if !isIndexedClass(res.Name) {
				continue
			}
			name, _ := classfile.PathToName(res.Name)
			if _, exists := ix.Get(name); exists {
				continue
			}
			data, err := cp.Read(res)
			if err != nil {
				output.Warn("skipping class", "url", res.URL, "error", err)
				skipped = append(skipped, err)
				continue
			}
			rec, err := classfile.Parse(data)
			if err != nil {
				output.Warn("skipping malformed class", "url", res.URL, "error", err)
				skipped = append(skipped, err)
				continue
			}
			if err := ix.Add(rec); err != nil {
				output.Warn("skipping class", "url", res.URL, "error", err)
				skipped = append(skipped, err)
				continue
			}
			added++
		}

		metrics.SourcesScanned.WithLabelValues(metrics.KindPackage).Inc()
		metrics.ClassesIndexed.WithLabelValues(metrics.OriginScan).Add(float64(added))
		metrics.ScanDuration.WithLabelValues(metrics.KindPackage).Observe(time.Since(start).Seconds())
		output.Debug("scanned package", "package", pkg, "classes", added)
	}
	return ix, skipped
}

package tracelog

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"deploytrace/internal/constants"
	coreerrors "deploytrace/internal/core/errors"
)

// rotationSource tags the lines rotation writes about itself.
const rotationSource = "LogRotation"

// ArchivePath is path with its extension replaced by .lo_ (appended when
// path has none).
func ArchivePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + constants.LogArchiveExtension
}

// thresholdBytes converts a MB threshold to bytes; 0 disables rotation.
// NaN disables rotation and values past MaxLogSizeMB are clamped.
func thresholdBytes(maxSizeMB float64) int64 {
	if math.IsNaN(maxSizeMB) || maxSizeMB <= 0 {
		return 0
	}
	if maxSizeMB > constants.MaxLogSizeMB {
		maxSizeMB = constants.MaxLogSizeMB
	}
	return int64(maxSizeMB * constants.BytesPerMB)
}

// rotate archives the log file when it has grown past the configured size.
// Both notices go through dispatch with rotation disabled, so a rotation
// never triggers another one. The second notice recreates the log file.
func (d *Dispatcher) rotate(c call, path string) error {
	limit := thresholdBytes(c.cfg.MaxSizeMB)
	if limit <= 0 {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return coreerrors.Wrap(err, coreerrors.CodeRotationFailed, "failed to stat log file").WithPath(path)
	}
	if info.Size() <= limit {
		return nil
	}

	archive := ArchivePath(path)
	size := strconv.FormatFloat(c.cfg.MaxSizeMB, 'f', -1, 64)

	notice := c
	notice.cfg.MaxSizeMB = 0
	notice.severity = SeverityInfo
	notice.source = rotationSource
	notice.debug = false
	notice.passThrough = false

	d.dispatch([]string{"Maximum log file size [" + size + " MB] reached. Rename log file to [" + archive + "]."}, notice)

	// os.Rename replaces an existing archive
	if err := os.Rename(path, archive); err != nil {
		return coreerrors.Wrap(err, coreerrors.CodeRotationFailed, "failed to archive log file").WithPath(archive)
	}

	d.dispatch([]string{"Previous log file was renamed to [" + archive + "] because maximum log file size of [" + size + " MB] was reached."}, notice)
	return nil
}

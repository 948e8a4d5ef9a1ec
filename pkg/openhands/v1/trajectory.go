package v1

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openhands/skillctl/internal/errors"
)

// DownloadInfo describes a trajectory archive written to disk.
type DownloadInfo struct {
	File        string `json:"file"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type"`
}

// DownloadTrajectory fetches the conversation's trajectory zip and writes
// it to outPath.
func (c *Client) DownloadTrajectory(ctx context.Context, conversationID, outPath string) (*DownloadInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	data, contentType, err := c.http.Download(ctx, apiPrefix+"/app-conversations/"+conversationID+"/download", nil)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, errors.Wrap(err, "writing trajectory archive")
	}

	return &DownloadInfo{File: outPath, Size: len(data), ContentType: contentType}, nil
}

// TrajectoryEventCount summarizes an extracted trajectory archive.
type TrajectoryEventCount struct {
	EventCount int           `json:"event_count"`
	HasMeta    bool          `json:"has_meta"`
	Zip        *DownloadInfo `json:"zip"`
	ExtractDir string        `json:"extract_dir"`
}

// CountEventsFromTrajectory counts a conversation's events without an
// agent-server session: it downloads the trajectory zip to zipPath,
// extracts it into extractDir, and counts the event_*.json files. Heavier
// than CountEvents, but the extracted files keep the full event payloads
// around for inspection.
func (c *Client) CountEventsFromTrajectory(ctx context.Context, conversationID, zipPath, extractDir string) (*TrajectoryEventCount, error) {
	info, err := c.DownloadTrajectory(ctx, conversationID, zipPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating extraction directory")
	}
	if err := extractZip(zipPath, extractDir); err != nil {
		return nil, err
	}

	events, err := filepath.Glob(filepath.Join(extractDir, "event_*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "listing event files")
	}
	_, metaErr := os.Stat(filepath.Join(extractDir, "meta.json"))

	return &TrajectoryEventCount{
		EventCount: len(events),
		HasMeta:    metaErr == nil,
		Zip:        info,
		ExtractDir: extractDir,
	}, nil
}

// extractZip unpacks an archive into dir, refusing entries whose paths
// would land outside it.
func extractZip(archive, dir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		// OpenReader hands back a usable reader alongside
		// ErrInsecurePath; close it either way.
		if r != nil {
			_ = r.Close()
		}
		return errors.Wrap(err, "opening trajectory archive")
	}
	defer r.Close()

	root := filepath.Clean(dir)
	for _, f := range r.File {
		target := filepath.Join(root, f.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return errors.Newf("archive entry %q escapes the extraction directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, "creating %s", target)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", filepath.Dir(target))
		}
		if err := extractZipFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "opening archive entry %s", f.Name)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", target)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrapf(err, "extracting %s", f.Name)
	}
	return nil
}

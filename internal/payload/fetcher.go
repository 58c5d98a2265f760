package payload

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// FileFetcher serves stored match payloads from a directory. A match is stored as
// <matchId>.json, <matchId>.json.gz or <matchId>.json.zst.
type FileFetcher struct {
	Dir string
}

// NewFileFetcher returns a fetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Dir: dir}
}

var extensions = []string{".json", ".json.gz", ".json.zst"}

// Fetch loads and parses the payload for matchID. Returns errs.ErrNotFound when
// no file exists for the id.
func (f *FileFetcher) Fetch(ctx context.Context, matchID string) (*model.RawMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if matchID == "" || filepath.Base(matchID) != matchID {
		return nil, errs.NotFound(matchID)
	}

	for _, ext := range extensions {
		path := filepath.Join(f.Dir, matchID+ext)
		file, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open payload: %w", err)
		}
		raw, err := decodeFile(file, ext)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("payload %s: %w", filepath.Base(path), err)
		}
		return raw, nil
	}
	return nil, errs.NotFound(matchID)
}

func decodeFile(r io.Reader, ext string) (*model.RawMatch, error) {
	switch ext {
	case ".json.gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		return Parse(gz)
	case ".json.zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		return Parse(zr)
	default:
		return Parse(r)
	}
}

// Store validates a payload and writes it into the fetcher's directory,
// zstd-compressed, under its own match id.
func (f *FileFetcher) Store(body []byte) (string, error) {
	raw, err := ParseBytes(body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return "", fmt.Errorf("create payload dir: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("zstd: %w", err)
	}
	defer enc.Close()

	path := filepath.Join(f.Dir, raw.MatchID+".json.zst")
	if err := os.WriteFile(path, enc.EncodeAll(body, nil), 0644); err != nil {
		return "", fmt.Errorf("write payload: %w", err)
	}
	return raw.MatchID, nil
}

package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the optional name map inside an asset directory.
const ManifestFile = "manifest.yaml"

// Manifest maps lump names to image files relative to the asset
// directory. Images found in the textures, flats and sprites folders are
// registered under their upper-cased base name as well.
type Manifest struct {
	Textures map[string]string `yaml:"textures"`
	Flats    map[string]string `yaml:"flats"`
	Sprites  map[string]string `yaml:"sprites"`
}

var kindDirs = [...]string{
	kindTexture: "textures",
	kindFlat:    "flats",
	kindSprite:  "sprites",
}

type job struct {
	kind kind
	name string
	path string
}

// LoadDir decodes every PNG under dir concurrently. A missing directory
// is not an error; the manager then serves placeholders only.
func (m *Manager) LoadDir(ctx context.Context, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		logger.Printf("Warning: asset directory %s not found, using placeholders", dir)
		return nil
	}

	jobs, err := collectJobs(dir)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodeFile(j.path)
			if err != nil {
				return fmt.Errorf("load %s %s: %w", j.kind, j.name, err)
			}
			m.add(j.kind, j.name, prepare(j.kind, img))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Printf("loaded %d images from %s", len(jobs), dir)
	return nil
}

func collectJobs(dir string) ([]job, error) {
	var jobs []job
	for k, sub := range kindDirs {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", sub, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
				continue
			}
			name := strings.ToUpper(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
			jobs = append(jobs, job{kind: kind(k), name: name, path: filepath.Join(dir, sub, e.Name())})
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return jobs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for k, names := range [...]map[string]string{
		kindTexture: manifest.Textures,
		kindFlat:    manifest.Flats,
		kindSprite:  manifest.Sprites,
	} {
		for name, file := range names {
			jobs = append(jobs, job{kind: kind(k), name: name, path: filepath.Join(dir, file)})
		}
	}
	return jobs, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// prepare converts a decoded image to RGBA. Flats are scaled to 64×64 and
// translucent sprite pixels become ColourKey.
func prepare(k kind, src image.Image) *image.RGBA {
	bounds := src.Bounds()
	if k == kindFlat && (bounds.Dx() != FlatSize || bounds.Dy() != FlatSize) {
		dst := image.NewRGBA(image.Rect(0, 0, FlatSize, FlatSize))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
		return dst
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	if k != kindSprite {
		return dst
	}
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] < 128 {
			dst.Pix[i] = ColourKey.R
			dst.Pix[i+1] = ColourKey.G
			dst.Pix[i+2] = ColourKey.B
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

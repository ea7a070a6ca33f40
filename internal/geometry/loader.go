package geometry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// levelFile is the on-disk YAML layout of a level.
type levelFile struct {
	Name     string       `yaml:"name"`
	Vertices [][2]float64 `yaml:"vertices"`
	Sectors  []struct {
		Floor    float64 `yaml:"floor"`
		Ceil     float64 `yaml:"ceil"`
		Light    int     `yaml:"light"`
		FloorTex string  `yaml:"floor_tex"`
		CeilTex  string  `yaml:"ceil_tex"`
	} `yaml:"sectors"`
	Sidedefs []struct {
		Sector  int     `yaml:"sector"`
		Upper   string  `yaml:"upper"`
		Lower   string  `yaml:"lower"`
		Middle  string  `yaml:"middle"`
		XOffset float64 `yaml:"x_offset"`
		YOffset float64 `yaml:"y_offset"`
	} `yaml:"sidedefs"`
	Linedefs []struct {
		Start int  `yaml:"start"`
		End   int  `yaml:"end"`
		Type  int  `yaml:"type"`
		Flags int  `yaml:"flags"`
		Front int  `yaml:"front"`
		Back  *int `yaml:"back,omitempty"`
	} `yaml:"linedefs"`
	Segments []struct {
		Start     int `yaml:"start"`
		End       int `yaml:"end"`
		Linedef   int `yaml:"linedef"`
		Direction int `yaml:"direction"`
	} `yaml:"segments"`
	SubSectors []struct {
		First int `yaml:"first"`
		Count int `yaml:"count"`
	} `yaml:"subsectors"`
	Nodes []struct {
		X        float64    `yaml:"x"`
		Y        float64    `yaml:"y"`
		DX       float64    `yaml:"dx"`
		DY       float64    `yaml:"dy"`
		FrontBox [4]float64 `yaml:"front_box"` // top, bottom, left, right
		BackBox  [4]float64 `yaml:"back_box"`
		Front    int        `yaml:"front"`
		Back     int        `yaml:"back"`
	} `yaml:"nodes"`
	Things []struct {
		X      float64 `yaml:"x"`
		Y      float64 `yaml:"y"`
		Angle  float64 `yaml:"angle"`
		Type   int     `yaml:"type"`
		Sprite string  `yaml:"sprite"`
		Height float64 `yaml:"height"`
		Radius float64 `yaml:"radius"`
		Solid  bool    `yaml:"solid"`
	} `yaml:"things"`
}

// LoadLevel reads, validates and resolves a YAML level file.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

// MustLoadLevel loads a level and panics on error.
func MustLoadLevel(path string) *Level {
	lvl, err := LoadLevel(path)
	if err != nil {
		panic("Failed to load level: " + err.Error())
	}
	return lvl
}

// ParseLevel decodes a YAML level document.
func ParseLevel(data []byte) (*Level, error) {
	var f levelFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	lvl := &Level{Name: f.Name}
	for _, v := range f.Vertices {
		lvl.Vertices = append(lvl.Vertices, Vec2{X: v[0], Y: v[1]})
	}
	for _, s := range f.Sectors {
		lvl.Sectors = append(lvl.Sectors, Sector{
			FloorHeight:  s.Floor,
			CeilHeight:   s.Ceil,
			FloorTexture: s.FloorTex,
			CeilTexture:  s.CeilTex,
			LightLevel:   s.Light,
		})
	}
	for _, sd := range f.Sidedefs {
		lvl.Sidedefs = append(lvl.Sidedefs, Sidedef{
			XOffset:       sd.XOffset,
			YOffset:       sd.YOffset,
			UpperTexture:  textureOrNone(sd.Upper),
			LowerTexture:  textureOrNone(sd.Lower),
			MiddleTexture: textureOrNone(sd.Middle),
			Sector:        sd.Sector,
		})
	}
	for _, ld := range f.Linedefs {
		back := NoSide
		if ld.Back != nil {
			back = *ld.Back
		}
		lvl.Linedefs = append(lvl.Linedefs, Linedef{
			Start:    ld.Start,
			End:      ld.End,
			Flags:    ld.Flags,
			LineType: ld.Type,
			Front:    ld.Front,
			Back:     back,
		})
	}
	for _, s := range f.Segments {
		lvl.Segments = append(lvl.Segments, Segment{
			StartVertex: s.Start,
			EndVertex:   s.End,
			Linedef:     s.Linedef,
			Direction:   s.Direction,
		})
	}
	for _, ss := range f.SubSectors {
		lvl.SubSectors = append(lvl.SubSectors, SubSector{FirstSeg: ss.First, SegCount: ss.Count})
	}
	for _, n := range f.Nodes {
		lvl.Nodes = append(lvl.Nodes, Node{
			X: n.X, Y: n.Y, DX: n.DX, DY: n.DY,
			FrontBox:   boxFromArray(n.FrontBox),
			BackBox:    boxFromArray(n.BackBox),
			FrontChild: n.Front,
			BackChild:  n.Back,
		})
	}
	for _, th := range f.Things {
		lvl.Things = append(lvl.Things, Thing{
			Pos:    Vec2{X: th.X, Y: th.Y},
			Angle:  th.Angle,
			Type:   th.Type,
			Sprite: th.Sprite,
			Height: th.Height,
			Radius: th.Radius,
			Solid:  th.Solid,
		})
	}

	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	lvl.Resolve()
	logger.Printf("Loaded level %q: %d segments, %d sub-sectors, %d nodes",
		lvl.Name, len(lvl.Segments), len(lvl.SubSectors), len(lvl.Nodes))
	return lvl, nil
}

func textureOrNone(name string) string {
	if name == "" {
		return NoTexture
	}
	return name
}

func boxFromArray(b [4]float64) BBox {
	return BBox{Top: b[0], Bottom: b[1], Left: b[2], Right: b[3]}
}

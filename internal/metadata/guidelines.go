package metadata

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Guideline is a font-level guideline as stored in fontinfo.plist.
type Guideline struct {
	X          float32     `json:"x" yaml:"x"`
	Y          float32     `json:"y" yaml:"y"`
	Angle      float32     `json:"angle" yaml:"angle"`
	Name       string      `json:"name" yaml:"name"`
	Identifier string      `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Color      *[4]float32 `json:"color,omitempty" yaml:"color,omitempty"`
}

// Guidelines fetches the font's guidelines. The companion prints them as a
// JSON array on its first line of output. Entries without a numeric x, y
// and angle are skipped; nameless ones are called "Unnamed 1", "Unnamed 2"
// and so on.
func (c *Client) Guidelines(ctx context.Context, font string) ([]Guideline, error) {
	c.logger.Debug("getting arbitrary keys", map[string]string{"keys": "guidelines"})
	output, err := c.run(ctx, font, "arbitrary", "-k", "guidelines")
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), len(output)+1)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: no guideline output", ErrDecode)
	}
	var entries []map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &entries); err != nil {
		c.logger.Error("guideline output is not a JSON array", map[string]string{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	guidelines := make([]Guideline, 0, len(entries))
	unnamed := 0
	for _, entry := range entries {
		x, okX := number(entry["x"])
		y, okY := number(entry["y"])
		angle, okAngle := number(entry["angle"])
		if !okX || !okY || !okAngle {
			c.logger.Debug("skipping guideline without position", nil)
			continue
		}
		guideline := Guideline{X: x, Y: y, Angle: angle}
		if name, ok := entry["name"].(string); ok {
			guideline.Name = name
		} else {
			unnamed++
			guideline.Name = "Unnamed " + strconv.Itoa(unnamed)
		}
		if identifier, ok := entry["identifier"].(string); ok {
			guideline.Identifier = identifier
		}
		guideline.Color = rgba(entry["color"])
		guidelines = append(guidelines, guideline)
	}
	return guidelines, nil
}

func number(value any) (float32, bool) {
	parsed, ok := value.(float64)
	return float32(parsed), ok
}

// rgba reads the first four numeric components of a color array.
func rgba(value any) *[4]float32 {
	components, ok := value.([]any)
	if !ok || len(components) < 4 {
		return nil
	}
	var color [4]float32
	for i := range color {
		component, ok := number(components[i])
		if !ok {
			return nil
		}
		color[i] = component
	}
	return &color
}

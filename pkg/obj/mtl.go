package obj

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Material is the subset of an MTL definition the renderer consumes.
type Material struct {
	Name    string
	Diffuse [4]float32 // Kd with the dissolve value as alpha
}

// ParseMTL reads an MTL material library and returns its materials by
// name. Kd sets the diffuse color, d the alpha; other directives are
// skipped. Materials without a Kd keep the default gray.
func ParseMTL(data []byte) (map[string]Material, error) {
	materials := make(map[string]Material)
	var current Material
	open := false

	flush := func() {
		if open {
			materials[current.Name] = current
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: newmtl without a name", lineNo)
			}
			flush()
			current = Material{Name: fields[1], Diffuse: defaultColor}
			open = true

		case "Kd":
			if !open {
				return nil, fmt.Errorf("line %d: Kd before newmtl", lineNo)
			}
			kd, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: Kd: %w", lineNo, err)
			}
			current.Diffuse[0] = kd[0]
			current.Diffuse[1] = kd[1]
			current.Diffuse[2] = kd[2]

		case "d":
			if !open {
				return nil, fmt.Errorf("line %d: d before newmtl", lineNo)
			}
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: d without a value", lineNo)
			}
			alpha, err := parseFloat(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: d: %w", lineNo, err)
			}
			current.Diffuse[3] = alpha
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read material text: %w", err)
	}

	flush()
	return materials, nil
}

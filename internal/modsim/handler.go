// Package modsim stands in for the in-game mod script. It answers bridge
// requests from the command file and accepts pushed coordinates, so the
// overlay can be exercised without the game running.
package modsim

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Handler answers one command. argument is everything between the command
// word and the timestamp, and may be empty.
type Handler interface {
	Handle(command, argument string) (string, error)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(command, argument string) (string, error)

// Handle calls f
func (f HandlerFunc) Handle(command, argument string) (string, error) {
	return f(command, argument)
}

// SavePoint is a save point reported by the default handler
type SavePoint struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// SampleSavePoints are answered to SCAN by DefaultHandler
var SampleSavePoints = []SavePoint{
	{Name: "Torch City Gate", X: 1024.5, Y: -312.0, Z: 88.25},
	{Name: "Abandoned Factory", X: 2210.0, Y: 140.75, Z: 12.0},
	{Name: "Tower Lift", X: -560.25, Y: 905.5, Z: 301.0},
}

// DefaultHandler answers SCAN with SampleSavePoints and accepts any TPNAME
func DefaultHandler() Handler {
	return HandlerFunc(func(command, argument string) (string, error) {
		switch strings.ToUpper(command) {
		case "SCAN":
			data, err := json.Marshal(SampleSavePoints)
			if err != nil {
				return "", err
			}
			return string(data), nil
		case "TPNAME":
			if argument == "" {
				return "ERR missing save point name", nil
			}
			return "OK " + argument, nil
		default:
			return fmt.Sprintf("ERR unknown command %s", command), nil
		}
	})
}

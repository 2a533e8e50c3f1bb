// Command schema emits the JSON Schema for the tuning file so external
// editors can validate configs without importing the module.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/Garsondee/Pursuit-Sense/internal/sim"
	"github.com/Garsondee/Pursuit-Sense/pkg/logger"
)

func main() {
	var out string
	flag.StringVar(&out, "out", "tuning.schema.json", "output file (- for stdout)")
	flag.Parse()

	logger.Init()

	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	schema := reflector.Reflect(&sim.Tuning{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		logger.Log.WithError(err).Fatal("marshal schema")
	}
	data = append(data, '\n')

	if out == "-" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		logger.Log.WithError(err).Fatal("write schema")
	}
	logger.Log.WithField("path", out).Info("schema written")
}

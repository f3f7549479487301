// Command reportengine projects a local data file through a local rule file
// and writes the result to stdout, for offline/local use without the HTTP
// service's Mongo/Postgres/S3 dependencies.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/openlend/reportengine/internal/envelope"
	"github.com/openlend/reportengine/internal/projection"
)

func main() {
	dataPath := flag.String("data", "data.json", "path to the input JSON document")
	rulesPath := flag.String("rules", "rules.json", "path to the rule set JSON array")
	skipDedupe := flag.Bool("skip-dedupe", false, "skip borrower/co-borrower address deduplication")
	flag.Parse()

	if err := run(*dataPath, *rulesPath, *skipDedupe); err != nil {
		log.Fatalf("reportengine: %v", err)
	}
}

func run(dataPath, rulesPath string, skipDedupe bool) error {
	dataRaw, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	rulesRaw, err := os.ReadFile(rulesPath)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}

	doc, err := projection.DecodeJSON(dataRaw)
	if err != nil {
		return fmt.Errorf("decode data file: %w", err)
	}
	rules, err := projection.ParseRules(rulesRaw)
	if err != nil {
		return fmt.Errorf("decode rules file: %w", err)
	}

	if !skipDedupe {
		doc = envelope.DedupeAddresses(doc)
	}

	projected, err := projection.Project(doc, rules)
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}

	out, err := projected.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

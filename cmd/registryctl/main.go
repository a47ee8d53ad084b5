// registryctl loads a corpus file and runs a single query against it,
// printing the matching record lines. It exercises the index and query
// engine without the HTTP service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/civic-records/registry-search/internal/loader"
	"github.com/civic-records/registry-search/internal/query"
	"github.com/civic-records/registry-search/internal/registry"
	"github.com/civic-records/registry-search/pkg/logger"
)

func main() {
	corpusPath := flag.String("corpus", "data/records.txt", "path to corpus file")
	surname := flag.String("surname", "", "surname key (first character of the record)")
	province := flag.String("province", "", "two-digit province key")
	year := flag.String("year", "", "four-digit year key")
	quiet := flag.Bool("quiet", false, "print counts and timings only")
	flag.Parse()

	logger.Setup("warn", "text")

	lines, err := loader.NewFileLoader(*corpusPath).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading corpus: %v\n", err)
		os.Exit(1)
	}

	engine := registry.New()
	stats := engine.Load(lines)
	fmt.Printf("loaded %d records in %dms (%d surnames, %d provinces, %d years)\n",
		stats.Records, stats.BuildMs, stats.SurnameKeys, stats.ProvinceKeys, stats.YearKeys)

	criteria := query.Criteria{
		Surname:  *surname,
		Province: *province,
		Year:     *year,
	}

	start := time.Now()
	records := engine.Search(criteria)
	elapsed := time.Since(start)

	fmt.Printf("query matched %d records in %s\n", len(records), elapsed)
	if !*quiet {
		for _, record := range records {
			fmt.Println(record)
		}
	}
}

// Command leadscraper runs the B2B lead discovery pipeline.
package main

import "github.com/madhurjya9655/scraper-tool/cmd"

func main() {
	cmd.Execute()
}

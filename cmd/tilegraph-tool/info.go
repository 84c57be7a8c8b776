package main

import "fmt"

type infoCmd struct {
	archiveFlags
}

// Execute prints the dataset id and tile count of the graph archive.
func (c *infoCmd) Execute(_ []string) error {
	ts, err := c.open()
	if err != nil {
		return err
	}
	defer ts.Close()

	tiles := ts.Tiles()
	fmt.Printf("dataset_id: %d\n", ts.DatasetID())
	fmt.Printf("tiles: %d\n", len(tiles))
	return nil
}

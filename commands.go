package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/o0olele/svon-go/builder"
	"github.com/o0olele/svon-go/config"
	"github.com/o0olele/svon-go/query"
)

var (
	configPath string
	navPath    string
	outPath    string
	fromFlag   string
	toFlag     string
	queryPath  string
	batchLimit int

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Rasterize the configured scene and save the volume",
		RunE:  runBuild,
	}

	findCmd = &cobra.Command{
		Use:   "find",
		Short: "Search one path and print it as JSON",
		RunE:  runFind,
	}

	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Search a YAML list of requests concurrently",
		RunE:  runBatch,
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Print information about a saved volume",
		RunE:  runInfo,
	}
)

func init() {
	buildCmd.Flags().StringVar(&configPath, "config", "", "scene configuration file")
	buildCmd.Flags().StringVar(&outPath, "out", "scene.svon", "output volume file")
	_ = buildCmd.MarkFlagRequired("config")

	for _, cmd := range []*cobra.Command{findCmd, batchCmd} {
		cmd.Flags().StringVar(&navPath, "nav", "", "volume file")
		cmd.Flags().StringVar(&configPath, "config", "", "optional configuration file for search settings")
		_ = cmd.MarkFlagRequired("nav")
	}
	findCmd.Flags().StringVar(&fromFlag, "from", "", "start position x,y,z")
	findCmd.Flags().StringVar(&toFlag, "to", "", "goal position x,y,z")
	_ = findCmd.MarkFlagRequired("from")
	_ = findCmd.MarkFlagRequired("to")

	batchCmd.Flags().StringVar(&queryPath, "queries", "", "YAML file with a list of requests")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 8, "maximum concurrent searches")
	_ = batchCmd.MarkFlagRequired("queries")

	infoCmd.Flags().StringVar(&navPath, "nav", "", "volume file")
	_ = infoCmd.MarkFlagRequired("nav")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	volume, err := builder.BuildAndSave(builder.BuildConfig{
		Bounds:     cfg.Volume.Bounds,
		NumLayers:  cfg.Volume.Layers,
		Obstacles:  cfg.Volume.Obstacles,
		OutputFile: outPath,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("volume saved", "file", outPath, "nodes", volume.NodeCount())
	return nil
}

// loadQuery opens the volume at navPath with settings from configPath, if any.
func loadQuery() (*query.NavigationQuery, error) {
	settings := query.DefaultSettings()
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if settings, err = cfg.Search.Settings(); err != nil {
			return nil, err
		}
	}
	return query.LoadAndQuery(navPath, query.WithLogger(logger), query.WithSettings(settings))
}

func runFind(cmd *cobra.Command, args []string) error {
	start, err := parseVector(fromFlag)
	if err != nil {
		return err
	}
	end, err := parseVector(toFlag)
	if err != nil {
		return err
	}

	nq, err := loadQuery()
	if err != nil {
		return err
	}

	path, res, err := nq.FindPath(cmd.Context(), start, end)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(PathfindResponse{
		Path:   path.Points,
		Found:  res.Found,
		Length: path.Len(),
		Result: res,
	})
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(queryPath)
	if err != nil {
		return errors.Wrap(err, "read queries")
	}
	var reqs []query.PathRequest
	if err := yaml.Unmarshal(data, &reqs); err != nil {
		return errors.Wrap(err, "parse queries")
	}

	nq, err := loadQuery()
	if err != nil {
		return err
	}

	responses, err := nq.FindPaths(cmd.Context(), reqs, batchLimit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(responses)
}

func runInfo(cmd *cobra.Command, args []string) error {
	info, err := builder.GetFileInfo(navPath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

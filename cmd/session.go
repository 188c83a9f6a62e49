package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"roadboard/aggregate"
	"roadboard/config"
	"roadboard/filter"
	"roadboard/internal/log"
	"roadboard/loader"
	"roadboard/roadmap"
)

// session is the validated configuration plus what commands build from it.
type session struct {
	cfg    *config.Config
	logger *log.Logger
	source *loader.Cached
}

func loadSession() (*session, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	log.SetDefault(logger)

	return &session{
		cfg:    cfg,
		logger: logger,
		source: loader.NewCached(sourceFromConfig(cfg.Source), logger),
	}, nil
}

func newLogger(cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logConfig := log.DefaultConfig()
	logConfig.Level = level
	logConfig.Format = cfg.Format
	return log.New(logConfig), nil
}

func sourceFromConfig(cfg config.SourceConfig) loader.Source {
	return loader.Source{
		Path:            cfg.Path,
		Format:          loader.Format(cfg.Format),
		Sheet:           cfg.Sheet,
		CredentialsFile: cfg.CredentialsFile,
	}
}

func (s *session) timelineKey() aggregate.TimelineKey {
	key, err := aggregate.ParseTimelineKey(s.cfg.Dashboard.TimelineBy)
	if err != nil {
		return aggregate.TimelineBySubject
	}
	return key
}

// filterFlags holds the repeatable filter flags shared by summary and export.
type filterFlags struct {
	statuses    []string
	years       []string
	months      []string
	departments []string
	persons     []string
	groups      []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVar(&f.statuses, filter.ParamStatus, nil, "Keep records with this status (repeatable, empty value selects none)")
	flags.StringArrayVar(&f.years, filter.ParamYear, nil, "Keep records starting in this year (repeatable)")
	flags.StringArrayVar(&f.months, filter.ParamMonth, nil, "Keep records starting in this month, e.g. March (repeatable)")
	flags.StringArrayVar(&f.departments, filter.ParamDepartment, nil, "Keep records of this department (repeatable, "+filter.BlankValue+" for empty)")
	flags.StringArrayVar(&f.persons, filter.ParamPerson, nil, "Keep records of this person (repeatable, "+filter.BlankValue+" for empty)")
	flags.StringArrayVar(&f.groups, filter.ParamGroup, nil, "Keep records tagged with this group label (repeatable)")
}

// values converts the flags that were set on cmd into filter parameters.
func (f *filterFlags) values(cmd *cobra.Command) url.Values {
	out := url.Values{}
	add := func(name string, values []string) {
		if cmd.Flags().Changed(name) {
			out[name] = append([]string{}, values...)
		}
	}
	add(filter.ParamStatus, f.statuses)
	add(filter.ParamYear, f.years)
	add(filter.ParamMonth, f.months)
	add(filter.ParamDepartment, f.departments)
	add(filter.ParamPerson, f.persons)
	add(filter.ParamGroup, f.groups)
	return out
}

func (f *filterFlags) validate() error {
	for _, raw := range f.years {
		if raw == "" {
			continue
		}
		if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Errorf("invalid --year value %q", raw)
		}
	}
	return nil
}

// filteredTable loads the source and applies the filter flags of cmd.
func (s *session) filteredTable(ctx context.Context, cmd *cobra.Command, flags *filterFlags) (*roadmap.Table, error) {
	if err := flags.validate(); err != nil {
		return nil, err
	}
	table, err := s.source.Table(ctx)
	if err != nil {
		return nil, err
	}
	criteria := filter.FromValues(flags.values(cmd), filter.Options(table))
	filtered := filter.Apply(table, criteria)
	s.logger.Debug("records filtered", "total", table.Len(), "kept", filtered.Len())
	return filtered, nil
}

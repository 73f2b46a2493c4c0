package modkit

import (
	"enricher/internal/modkit/repokit"
	"enricher/internal/platform/config"
	"enricher/internal/platform/logger"
	"enricher/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when the backend is disabled, modules fall back or skip
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// DepsFrom builds Deps from an opened store
func DepsFrom(cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: logger.Named("modkit"), Cfg: cfg}
	if st != nil {
		d.PG = st.PG
		d.CH = st.CH
	}
	return d
}

// Logger returns Log or the named component logger when unset
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	l := d.Log.With().Str("component", component).Logger()
	return &l
}

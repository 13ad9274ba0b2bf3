package state

import (
	"time"

	"sbc/common"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// OverwriteAllowed combines command line flag with configured export policy.
func (e *LocalEnv) OverwriteAllowed() bool {
	if e.Overwrite {
		return true
	}
	return e.Cfg != nil && e.Cfg.Export.Overwrite == common.OverwriteModeOverwrite
}

// KeepMarkup reports whether exporter should write raw markup.
func (e *LocalEnv) KeepMarkup() bool {
	return e.RetainMarkup || (e.Cfg != nil && e.Cfg.Export.RetainMarkup)
}

// DropOtherLanguages reports whether importer should strip languages absent from the spreadsheet.
func (e *LocalEnv) DropOtherLanguages() bool {
	return e.RemoveOtherLanguages || (e.Cfg != nil && e.Cfg.Import.RemoveOtherLanguages)
}

package commands

import (
	"io"
	"strings"

	"shopqa/application/dom"
	"shopqa/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Env is what commands act on during one test
type Env struct {
	Doc            *dom.Document
	API            interfaces.APIClient
	Store          interfaces.StateStore
	BaseURL        string
	ScreenshotsDir string
	Log            *logrus.Entry
}

func (e *Env) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (e *Env) logger() *logrus.Entry {
	if e.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.Log = logrus.NewEntry(l)
	}
	return e.Log
}

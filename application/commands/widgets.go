package commands

import (
	"context"

	"shopqa/application/dom"
)

// UploadFile sets the files of the input matching selector
func UploadFile(ctx context.Context, env *Env, selector string, paths ...string) error {
	return env.Doc.Get(selector).Attach(ctx, paths...)
}

// GetTableRow returns the body row at index of the table matching selector
func GetTableRow(env *Env, table string, row int) dom.Locator {
	return env.Doc.Get(table + " tbody tr").Eq(row)
}

func GetTableCell(env *Env, table string, row, column int) dom.Locator {
	return GetTableRow(env, table, row).Find("td").Eq(column)
}

// GetIframeBody waits for the frame's body to have content and returns it
func GetIframeBody(ctx context.Context, env *Env, selector string) (dom.Locator, error) {
	body := env.Doc.Frame(selector)
	if err := body.ShouldNotBeEmpty(ctx); err != nil {
		return body, err
	}
	return body, nil
}

// SelectDate opens the picker and clicks the innermost element showing date
func SelectDate(ctx context.Context, env *Env, picker, date string) error {
	if err := env.Doc.Get(picker).Click(ctx); err != nil {
		return err
	}
	return env.Doc.Get(".datepicker").Find("*").Contains(date).Last().Click(ctx)
}

func DragAndDrop(ctx context.Context, env *Env, source, target string) error {
	return env.Doc.Get(source).DragTo(ctx, env.Doc.Get(target))
}

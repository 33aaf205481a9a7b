package session

import (
	"context"
	"strings"

	"github.com/chromedp/chromedp"
)

// DetailView adapts an open listing panel to the extraction layer. Lookups
// never wait for a selector to appear: a missing node is an expected
// outcome that just sends the extractor to its next strategy.
type DetailView struct {
	c *Controller
}

func (v *DetailView) Text(ctx context.Context, selector string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	var text string
	if err := v.c.run(v.c.cfg.OperationTimeout,
		chromedp.Text(selector, &text, byFor(selector), chromedp.AtLeast(0)),
	); err != nil {
		return "", false, err
	}
	text = strings.TrimSpace(text)
	return text, text != "", nil
}

func (v *DetailView) Attr(ctx context.Context, selector, attribute string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	var value string
	var ok bool
	if err := v.c.run(v.c.cfg.OperationTimeout,
		chromedp.AttributeValue(selector, attribute, &value, &ok, byFor(selector), chromedp.AtLeast(0)),
	); err != nil {
		return "", false, err
	}
	return value, ok && value != "", nil
}

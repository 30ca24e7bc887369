package gui

import (
	"fmt"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/controller"
)

// describe turns a gesture result into a status line. Idle releases say
// nothing.
func describe(r controller.Result) string {
	switch r.Outcome {
	case controller.Created:
		if r.LabelID != "" {
			return fmt.Sprintf("Added %s with label", kindName(r.Kind))
		}
		return "Added " + kindName(r.Kind)
	case controller.Pending:
		return "Waiting for text..."
	}
	switch r.Reason {
	case controller.ReasonIdle, controller.ReasonNone:
		return ""
	case controller.ReasonCancelled:
		return "Cancelled"
	}
	return "Nothing added: " + string(r.Reason)
}

func deletedMessage(n int) string {
	if n == 1 {
		return "Deleted 1 annotation"
	}
	return fmt.Sprintf("Deleted %d annotations", n)
}

func kindName(k annotation.Kind) string {
	switch k {
	case annotation.KindText:
		return "text"
	case annotation.KindArrow:
		return "arrow"
	case annotation.KindShape:
		return "shape"
	}
	return "annotation"
}

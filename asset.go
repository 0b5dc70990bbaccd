package xtctool

import "context"

// Asset is one node in the conversion graph. Convert performs a single step
// and reports what it produced: a finished frame, a batch of derived assets,
// or a replacement asset to convert next. The pipeline owns the Close call;
// it fires exactly once after Convert returns, on success and failure alike.
type Asset interface {
	Convert(ctx context.Context, p *Pipeline) (Result, error)
	Meta() *Meta
	Close() error
}

type resultKind int

const (
	resultFinal resultKind = iota
	resultExpanded
	resultContinue
)

// Result is the outcome of one conversion step.
type Result struct {
	kind   resultKind
	frame  *FrameAsset
	assets []Asset
}

// Final reports a finished frame.
func Final(f *FrameAsset) Result {
	return Result{kind: resultFinal, frame: f}
}

// Expanded reports derived assets to convert in the given order.
func Expanded(assets ...Asset) Result {
	return Result{kind: resultExpanded, assets: assets}
}

// Continue reports a replacement asset that takes the source's place.
func Continue(next Asset) Result {
	return Result{kind: resultContinue, assets: []Asset{next}}
}

package board

// OpKind is the closed set of reducer-level mutations.
type OpKind string

const (
	OpUpsertElement      OpKind = "upsertElement"
	OpDeleteElement      OpKind = "deleteElement"
	OpAppendStrokePoints OpKind = "appendStrokePoints"
	OpOffsetElement      OpKind = "offsetElement"
	OpSetElementGeometry OpKind = "setElementGeometry"
	OpSetElementStyle    OpKind = "setElementStyle"
	OpSetElementText     OpKind = "setElementText"
	OpDuplicateElement   OpKind = "duplicateElement"
	OpSetElementZIndex   OpKind = "setElementZIndex"
	OpAlignElements      OpKind = "alignElements"
	OpDistributeElements OpKind = "distributeElements"
	OpClearBoard         OpKind = "clearBoard"
	OpSetViewport        OpKind = "setViewport"
	OpBatch              OpKind = "batch"
)

// Axis selects the coordinate axis for align/distribute.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Op is a closed tagged union over every BoardOp variant. Only the fields
// relevant to Kind are populated by callers; Apply ignores the rest.
type Op struct {
	Kind OpKind `json:"kind"`

	// upsertElement
	Element Element `json:"element,omitempty"`

	// deleteElement, duplicateElement (source), setElementZIndex,
	// setElementText, setElementStyle, setElementGeometry, offsetElement,
	// appendStrokePoints (target)
	ID string `json:"id,omitempty"`

	// duplicateElement
	NewID string  `json:"newId,omitempty"`
	DX    float64 `json:"dx,omitempty"`
	DY    float64 `json:"dy,omitempty"`

	// appendStrokePoints
	Points []Point `json:"points,omitempty"`

	// offsetElement reuses DX/DY.

	// setElementGeometry
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	// setElementStyle
	Style Style `json:"style,omitempty"`

	// setElementText
	Text string `json:"text,omitempty"`

	// setElementZIndex
	ZIndex int `json:"zIndex,omitempty"`

	// alignElements, distributeElements
	IDs  []string `json:"ids,omitempty"`
	Axis Axis     `json:"axis,omitempty"`
	// alignElements target position on Axis
	Target *float64 `json:"target,omitempty"`
	// distributeElements optional fixed gap
	Gap *float64 `json:"gap,omitempty"`

	// setViewport is accepted as a no-op: nothing is stored and revision
	// is unchanged (viewport is a client-local concern); kept for wire
	// compatibility.
	ViewportX float64 `json:"viewportX,omitempty"`
	ViewportY float64 `json:"viewportY,omitempty"`
	ViewportZ float64 `json:"viewportZoom,omitempty"`

	// batch
	Ops []Op `json:"ops,omitempty"`
}

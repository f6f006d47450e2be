package qr

import "github.com/dmitrymomot/permaqr/pkg/qrcode"

// OptionsPatch overrides individual option fields. Nil fields keep their
// current value. RemoveGradient drops an existing gradient and wins over
// Gradient.
type OptionsPatch struct {
	Size            *int             `json:"size,omitempty"`
	Color           *string          `json:"color,omitempty"`
	Background      *string          `json:"background,omitempty"`
	Gradient        *qrcode.Gradient `json:"gradient,omitempty"`
	RemoveGradient  bool             `json:"removeGradient,omitempty"`
	Rounded         *bool            `json:"rounded,omitempty"`
	LogoScale       *float64         `json:"logoScale,omitempty"`
	ErrorCorrection *qrcode.Level    `json:"errorCorrection,omitempty"`
}

// Apply returns o with the patch applied. o is not modified.
func (p *OptionsPatch) Apply(o qrcode.Options) qrcode.Options {
	if p == nil {
		return o
	}
	if p.Size != nil {
		o.Size = *p.Size
	}
	if p.Color != nil {
		o.Color = *p.Color
	}
	if p.Background != nil {
		o.Background = *p.Background
	}
	switch {
	case p.RemoveGradient:
		o.Gradient = nil
	case p.Gradient != nil:
		g := *p.Gradient
		o.Gradient = &g
	}
	if p.Rounded != nil {
		o.Rounded = *p.Rounded
	}
	if p.LogoScale != nil {
		o.LogoScale = *p.LogoScale
	}
	if p.ErrorCorrection != nil {
		o.ErrorCorrection = *p.ErrorCorrection
	}
	return o
}

func (p *OptionsPatch) empty() bool {
	return p == nil || (p.Size == nil && p.Color == nil && p.Background == nil &&
		p.Gradient == nil && !p.RemoveGradient && p.Rounded == nil &&
		p.LogoScale == nil && p.ErrorCorrection == nil)
}

// CreateInput is the payload for Service.Create. Options are applied on top
// of qrcode.DefaultOptions.
type CreateInput struct {
	Kind    Kind          `json:"kind"`
	Content string        `json:"content"`
	Options *OptionsPatch `json:"options,omitempty"`
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Kind    *Kind         `json:"kind,omitempty"`
	Content *string       `json:"content,omitempty"`
	Options *OptionsPatch `json:"options,omitempty"`
}

func (in UpdateInput) empty() bool {
	return in.Kind == nil && in.Content == nil && in.Options.empty()
}

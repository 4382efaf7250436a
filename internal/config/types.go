package config

// Side selects which hand a part is built for.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
	Both  Side = "both"
)

func (s Side) Valid() bool {
	switch s {
	case Left, Right, Both:
		return true
	}
	return false
}

// ColumnStyle picks the key placement strategy.
type ColumnStyle string

const (
	ColumnStandard     ColumnStyle = "standard"
	ColumnOrthographic ColumnStyle = "orthographic"
	ColumnFixed        ColumnStyle = "fixed"
)

// PlateStyle is the switch retention style cut into every key plate.
type PlateStyle string

const (
	PlateNub        PlateStyle = "NUB"
	PlateHSNub      PlateStyle = "HS_NUB"
	PlateNotch      PlateStyle = "NOTCH"
	PlateHSNotch    PlateStyle = "HS_NOTCH"
	PlateUndercut   PlateStyle = "UNDERCUT"
	PlateHSUndercut PlateStyle = "HS_UNDERCUT"
	PlateHole       PlateStyle = "HOLE"
)

// HotSwap reports whether the plate carries a hot-swap socket holder.
func (p PlateStyle) HotSwap() bool {
	return len(p) > 3 && p[:3] == "HS_"
}

// Base strips the hot-swap prefix.
func (p PlateStyle) Base() PlateStyle {
	if p.HotSwap() {
		return p[3:]
	}
	return p
}

// ThumbStyle names a thumb cluster layout.
type ThumbStyle string

const (
	ThumbDefault        ThumbStyle = "DEFAULT"
	ThumbMini           ThumbStyle = "MINI"
	ThumbCarbonfet      ThumbStyle = "CARBONFET"
	ThumbMinidox        ThumbStyle = "MINIDOX"
	ThumbTrackballOrbyl ThumbStyle = "TRACKBALL_ORBYL"
	ThumbTrackballCJ    ThumbStyle = "TRACKBALL_CJ"
)

// Trackball reports whether the cluster carries a trackball.
func (t ThumbStyle) Trackball() bool {
	return t == ThumbTrackballOrbyl || t == ThumbTrackballCJ
}

// ScrewOffset shifts screw inserts relative to the wall.
type ScrewOffset string

const (
	ScrewsOriginal ScrewOffset = "ORIGINAL"
	ScrewsInside   ScrewOffset = "INSIDE"
	ScrewsOutside  ScrewOffset = "OUTSIDE"
)

// ControllerMount is the cutout or holder built into the back wall.
type ControllerMount string

const (
	ControllerNone         ControllerMount = "NONE"
	ControllerUSBWall      ControllerMount = "USB_WALL"
	ControllerRJ9USBWall   ControllerMount = "RJ9_USB_WALL"
	ControllerUSBTeensy    ControllerMount = "USB_TEENSY"
	ControllerRJ9USBTeensy ControllerMount = "RJ9_USB_TEENSY"
	ControllerExternal     ControllerMount = "EXTERNAL"
	ControllerPCBMount     ControllerMount = "PCB_MOUNT"
)

// OledMount is the display frame style in the left wall.
type OledMount string

const (
	OledNone     OledMount = "NONE"
	OledClip     OledMount = "CLIP"
	OledSliding  OledMount = "SLIDING"
	OledUndercut OledMount = "UNDERCUT"
)

// Symmetry says whether the left hand can be mirrored from the right.
type Symmetry string

const (
	Symmetric  Symmetry = "symmetric"
	Asymmetric Symmetry = "asymmetric"
)

// PreviewFormat selects the preview image encoder; empty disables previews.
type PreviewFormat string

const (
	PreviewNone PreviewFormat = ""
	PreviewWebP PreviewFormat = "webp"
	PreviewPNG  PreviewFormat = "png"
	PreviewBMP  PreviewFormat = "bmp"
	PreviewTGA  PreviewFormat = "tga"
)

// Valid reports whether t names a known cluster.
func (t ThumbStyle) Valid() bool {
	switch t {
	case ThumbDefault, ThumbMini, ThumbCarbonfet, ThumbMinidox, ThumbTrackballOrbyl, ThumbTrackballCJ:
		return true
	}
	return false
}

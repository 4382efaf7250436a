package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/titanous/json5"

	"dactyl-manuform/internal/mathutil"
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid")
	// ErrUnsupportedStyle marks a style or option combination with no implementation.
	ErrUnsupportedStyle = errors.New("config: unsupported style")
)

// Config holds every keyboard parameter and the render settings. It is decoded once per
// render and never mutated afterwards.
type Config struct {
	ConfigName string `json:"config_name" validate:"required,excludesall=/\\"`

	// Grid and curvature
	Rows             int             `json:"nrows" validate:"gte=2,lte=8"`
	Columns          int             `json:"ncols" validate:"gte=2,lte=7"`
	Alpha            float64         `json:"alpha" validate:"gt=0,lt=1.5708"`
	Beta             float64         `json:"beta" validate:"gt=0,lt=1.5708"`
	CenterCol        int             `json:"centercol" validate:"gte=0"`
	CenterRowOffset  int             `json:"centerrow_offset"`
	TentingAngle     float64         `json:"tenting_angle"`
	ColumnStyle      ColumnStyle     `json:"column_style" validate:"oneof=standard orthographic fixed"`
	ColumnStyleGT5   ColumnStyle     `json:"column_style_gt5" validate:"oneof=standard orthographic fixed"`
	ReducedInnerCols int             `json:"reduced_inner_cols" validate:"gte=0"`
	ReducedOuterCols int             `json:"reduced_outer_cols" validate:"gte=0"`
	ColumnOffsets    []mathutil.Vec3 `json:"column_offsets"`
	KeyboardZOffset  float64         `json:"keyboard_z_offset"`
	ExtraWidth       float64         `json:"extra_width" validate:"gte=0"`
	ExtraHeight      float64         `json:"extra_height" validate:"gte=0"`

	// Fixed column layout
	FixedAngles  []float64 `json:"fixed_angles"`
	FixedX       []float64 `json:"fixed_x"`
	FixedZ       []float64 `json:"fixed_z"`
	FixedTenting float64   `json:"fixed_tenting"`

	// Web posts
	WebThickness float64 `json:"web_thickness" validate:"gt=0"`
	PostSize     float64 `json:"post_size" validate:"gt=0"`
	PostAdj      float64 `json:"post_adj" validate:"gte=0"`

	// Thumb cluster
	ThumbStyle                    ThumbStyle      `json:"thumb_style" validate:"thumbstyle"`
	OtherThumb                    ThumbStyle      `json:"other_thumb" validate:"thumbstyle"`
	Default1UCluster              bool            `json:"default_1U_cluster"`
	MinidoxUsize                  float64         `json:"minidox_Usize" validate:"gte=1"`
	MiniIndexKey                  bool            `json:"mini_index_key"`
	ThumbOffsets                  mathutil.Vec3   `json:"thumb_offsets"`
	ThumbPlateTRRotation          float64         `json:"thumb_plate_tr_rotation"`
	ThumbPlateTLRotation          float64         `json:"thumb_plate_tl_rotation"`
	ThumbPlateMRRotation          float64         `json:"thumb_plate_mr_rotation"`
	ThumbPlateMLRotation          float64         `json:"thumb_plate_ml_rotation"`
	ThumbPlateBRRotation          float64         `json:"thumb_plate_br_rotation"`
	ThumbPlateBLRotation          float64         `json:"thumb_plate_bl_rotation"`
	SeparableThumb                bool            `json:"separable_thumb"`
	DefaultThumbScrews            []mathutil.Vec2 `json:"default_thumb_screw_xy_locations"`
	DefaultSeparableThumbScrews   []mathutil.Vec2 `json:"default_separable_thumb_screw_xy_locations"`
	MiniThumbScrews               []mathutil.Vec2 `json:"mini_thumb_screw_xy_locations"`
	MiniSeparableThumbScrews      []mathutil.Vec2 `json:"mini_separable_thumb_screw_xy_locations"`
	MinidoxThumbScrews            []mathutil.Vec2 `json:"minidox_thumb_screw_xy_locations"`
	MinidoxSeparableThumbScrews   []mathutil.Vec2 `json:"minidox_separable_thumb_screw_xy_locations"`
	CarbonfetThumbScrews          []mathutil.Vec2 `json:"carbonfet_thumb_screw_xy_locations"`
	CarbonfetSeparableThumbScrews []mathutil.Vec2 `json:"carbonfet_separable_thumb_screw_xy_locations"`

	// Trackball in the left wall. Only the wall anchors and the OLED placement react to it.
	TrackballInWall             bool          `json:"trackball_in_wall"`
	BallSide                    Side          `json:"ball_side" validate:"oneof=left right both"`
	TBIWLeftWallXOffsetOverride float64       `json:"tbiw_left_wall_x_offset_override"`
	TBIWLeftWallZOffsetOverride float64       `json:"tbiw_left_wall_z_offset_override"`
	TBIWLeftWallLowerXOffset    float64       `json:"tbiw_left_wall_lower_x_offset"`
	TBIWLeftWallLowerYOffset    float64       `json:"tbiw_left_wall_lower_y_offset"`
	TBIWLeftWallLowerZOffset    float64       `json:"tbiw_left_wall_lower_z_offset"`
	TBIWOledCenterRow           float64       `json:"tbiw_oled_center_row"`
	TBIWOledTranslationOffset   mathutil.Vec3 `json:"tbiw_oled_translation_offset"`
	TBIWOledRotationOffset      mathutil.Vec3 `json:"tbiw_oled_rotation_offset"`

	// Walls
	Skeletal              bool    `json:"skeletal"`
	WallZOffset           float64 `json:"wall_z_offset" validate:"gt=0"`
	WallXOffset           float64 `json:"wall_x_offset"`
	WallYOffset           float64 `json:"wall_y_offset"`
	LeftWallXOffset       float64 `json:"left_wall_x_offset"`
	LeftWallZOffset       float64 `json:"left_wall_z_offset"`
	LeftWallLowerXOffset  float64 `json:"left_wall_lower_x_offset"`
	LeftWallLowerYOffset  float64 `json:"left_wall_lower_y_offset"`
	LeftWallLowerZOffset  float64 `json:"left_wall_lower_z_offset"`
	WallThickness         float64 `json:"wall_thickness" validate:"gt=0"`
	WallBaseYThickness    float64 `json:"wall_base_y_thickness" validate:"gte=0"`
	WallBaseXThickness    float64 `json:"wall_base_x_thickness" validate:"gte=0"`
	WallBaseBackThickness float64 `json:"wall_base_back_thickness" validate:"gte=0"`

	// Switch plate
	PlateStyle              PlateStyle    `json:"plate_style" validate:"oneof=NUB HS_NUB NOTCH HS_NOTCH UNDERCUT HS_UNDERCUT HOLE"`
	HoleKeyswitchHeight     float64       `json:"hole_keyswitch_height" validate:"gt=0"`
	HoleKeyswitchWidth      float64       `json:"hole_keyswitch_width" validate:"gt=0"`
	NubKeyswitchHeight      float64       `json:"nub_keyswitch_height" validate:"gt=0"`
	NubKeyswitchWidth       float64       `json:"nub_keyswitch_width" validate:"gt=0"`
	UndercutKeyswitchHeight float64       `json:"undercut_keyswitch_height" validate:"gt=0"`
	UndercutKeyswitchWidth  float64       `json:"undercut_keyswitch_width" validate:"gt=0"`
	NotchWidth              float64       `json:"notch_width" validate:"gte=0"`
	SAProfileKeyHeight      float64       `json:"sa_profile_key_height" validate:"gte=0"`
	SALength                float64       `json:"sa_length" validate:"gt=0"`
	SADoubleLength          float64       `json:"sa_double_length" validate:"gt=0"`
	PlateThickness          float64       `json:"plate_thickness" validate:"gt=0"`
	PlateRim                float64       `json:"plate_rim" validate:"gte=0"`
	ClipThickness           float64       `json:"clip_thickness" validate:"gte=0"`
	ClipUndercut            float64       `json:"clip_undercut" validate:"gte=0"`
	UndercutTransition      float64       `json:"undercut_transition" validate:"gte=0"`
	PlateOffset             float64       `json:"plate_offset"`
	HotSwapDepth            float64       `json:"hot_swap_depth" validate:"gte=0"`
	PlateHoles              bool          `json:"plate_holes"`
	PlateHolesXYOffset      mathutil.Vec2 `json:"plate_holes_xy_offset"`
	PlateHolesWidth         float64       `json:"plate_holes_width"`
	PlateHolesHeight        float64       `json:"plate_holes_height"`
	PlateHolesDiameter      float64       `json:"plate_holes_diameter"`
	PlateHolesDepth         float64       `json:"plate_holes_depth"`
	PlatePCBClear           bool          `json:"plate_pcb_clear"`
	PlatePCBSize            mathutil.Vec3 `json:"plate_pcb_size"`
	PlatePCBOffset          mathutil.Vec3 `json:"plate_pcb_offset"`

	// OLED mount
	OledMountType         OledMount     `json:"oled_mount_type" validate:"oneof=NONE CLIP SLIDING UNDERCUT"`
	OledCenterRow         float64       `json:"oled_center_row"`
	OledTranslationOffset mathutil.Vec3 `json:"oled_translation_offset"`
	OledRotationOffset    mathutil.Vec3 `json:"oled_rotation_offset"`
	OledConfigurations    OledConfigs   `json:"oled_configurations"`

	// Screw inserts
	ScrewsOffset            ScrewOffset `json:"screws_offset" validate:"oneof=ORIGINAL INSIDE OUTSIDE"`
	ScrewInsertHeight       float64     `json:"screw_insert_height" validate:"gt=0"`
	ScrewInsertBottomRadius float64     `json:"screw_insert_bottom_radius" validate:"gt=0"`
	ScrewInsertTopRadius    float64     `json:"screw_insert_top_radius" validate:"gt=0"`
	ScrewInsertOuterRadius  float64     `json:"screw_insert_outer_radius" validate:"gt=0"`
	ScrewHoleDiameter       float64     `json:"screw_hole_diameter" validate:"gt=0"`

	// Controller mount
	ControllerMountType   ControllerMount `json:"controller_mount_type" validate:"oneof=NONE USB_WALL RJ9_USB_WALL USB_TEENSY RJ9_USB_TEENSY EXTERNAL PCB_MOUNT"`
	ExternalHolderHeight  float64         `json:"external_holder_height" validate:"gt=0"`
	ExternalHolderWidth   float64         `json:"external_holder_width" validate:"gt=0"`
	ExternalHolderXOffset float64         `json:"external_holder_xoffset"`
	ExternalHolderYOffset float64         `json:"external_holder_yoffset"`
	PCBMountRefOffset     mathutil.Vec3   `json:"pcb_mount_ref_offset"`
	PCBHolderSize         mathutil.Vec3   `json:"pcb_holder_size"`
	PCBHolderOffset       mathutil.Vec3   `json:"pcb_holder_offset"`
	PCBUSBHoleSize        mathutil.Vec3   `json:"pcb_usb_hole_size"`
	PCBUSBHoleOffset      mathutil.Vec3   `json:"pcb_usb_hole_offset"`
	WallThinnerSize       mathutil.Vec3   `json:"wall_thinner_size"`
	TRRSHoleSize          mathutil.Vec2   `json:"trrs_hole_size"`
	TRRSOffset            mathutil.Vec3   `json:"trrs_offset"`
	PCBScrewHoleSize      mathutil.Vec2   `json:"pcb_screw_hole_size"`
	PCBScrewXOffsets      []float64       `json:"pcb_screw_x_offsets"`
	PCBScrewYOffset       float64         `json:"pcb_screw_y_offset"`

	// Base plate
	BaseThickness      float64 `json:"base_thickness" validate:"gt=0"`
	BaseOffset         float64 `json:"base_offset" validate:"gte=0"`
	BaseRimThickness   float64 `json:"base_rim_thickness" validate:"gt=0"`
	ScrewCboreDiameter float64 `json:"screw_cbore_diameter" validate:"gte=0"`
	ScrewCboreDepth    float64 `json:"screw_cbore_depth" validate:"gte=0"`

	// Render settings
	OutputDir      string        `json:"save_dir"`
	MeshResolution float64       `json:"mesh_resolution" validate:"gte=0"`
	Preview        PreviewFormat `json:"preview" validate:"oneof='' webp png bmp tga"`
	PreviewView    string        `json:"preview_view"`
	RenderSize     int           `json:"render_size" validate:"gte=0"`
	Supersample    int           `json:"supersample" validate:"gte=0"`
	Workers        int           `json:"workers" validate:"gte=0"`
}

// OledMountConfig is shared by every OLED frame style.
type OledMountConfig struct {
	Width                   float64 `json:"oled_mount_width" validate:"gt=0"`
	Height                  float64 `json:"oled_mount_height" validate:"gt=0"`
	Rim                     float64 `json:"oled_mount_rim" validate:"gte=0"`
	Depth                   float64 `json:"oled_mount_depth" validate:"gt=0"`
	CutDepth                float64 `json:"oled_mount_cut_depth" validate:"gt=0"`
	LeftWallXOffsetOverride float64 `json:"oled_left_wall_x_offset_override"`
	LeftWallZOffsetOverride float64 `json:"oled_left_wall_z_offset_override"`
	LeftWallLowerYOffset    float64 `json:"oled_left_wall_lower_y_offset"`
	LeftWallLowerZOffset    float64 `json:"oled_left_wall_lower_z_offset"`
}

// UndercutOled is a rectangle with an undercut ledge for a clip-in display.
type UndercutOled struct {
	OledMountConfig
	Undercut          float64 `json:"oled_mount_undercut" validate:"gte=0"`
	UndercutThickness float64 `json:"oled_mount_undercut_thickness" validate:"gte=0"`
}

// SlidingOled is a frame the display slides into from below.
type SlidingOled struct {
	OledMountConfig
	Thickness            float64 `json:"oled_thickness" validate:"gt=0"`
	EdgeOverlapEnd       float64 `json:"oled_edge_overlap_end"`
	EdgeOverlapConnector float64 `json:"oled_edge_overlap_connector"`
	EdgeOverlapThickness float64 `json:"oled_edge_overlap_thickness"`
	EdgeOverlapClearance float64 `json:"oled_edge_overlap_clearance"`
	EdgeChamfer          float64 `json:"oled_edge_chamfer"`
}

// ClipOled is a frame with slots for a snap-down bezel.
type ClipOled struct {
	OledMountConfig
	Thickness             float64 `json:"oled_thickness" validate:"gt=0"`
	BezelThickness        float64 `json:"oled_mount_bezel_thickness" validate:"gt=0"`
	BezelChamfer          float64 `json:"oled_mount_bezel_chamfer" validate:"gte=0"`
	ConnectorHole         float64 `json:"oled_mount_connector_hole" validate:"gte=0"`
	ScreenStartFromConn   float64 `json:"oled_screen_start_from_conn_end"`
	ScreenLength          float64 `json:"oled_screen_length" validate:"gt=0"`
	ScreenWidth           float64 `json:"oled_screen_width" validate:"gt=0"`
	ClipThickness         float64 `json:"oled_clip_thickness" validate:"gt=0"`
	ClipWidth             float64 `json:"oled_clip_width" validate:"gt=0"`
	ClipOverhang          float64 `json:"oled_clip_overhang" validate:"gte=0"`
	ClipExtension         float64 `json:"oled_clip_extension" validate:"gt=0"`
	ClipWidthClearance    float64 `json:"oled_clip_width_clearance" validate:"gte=0"`
	ClipUndercut          float64 `json:"oled_clip_undercut" validate:"gte=0"`
	ClipUndercutThickness float64 `json:"oled_clip_undercut_thickness" validate:"gte=0"`
	ClipYGap              float64 `json:"oled_clip_y_gap" validate:"gte=0"`
	ClipZGap              float64 `json:"oled_clip_z_gap" validate:"gte=0"`
}

// OledConfigs carries the per-style OLED dimensions, keyed like the mount type.
type OledConfigs struct {
	Undercut UndercutOled `json:"UNDERCUT"`
	Sliding  SlidingOled  `json:"SLIDING"`
	Clip     ClipOled     `json:"CLIP"`
}

// Mount returns the shared settings of style m and false for NONE.
func (o OledConfigs) Mount(m OledMount) (OledMountConfig, bool) {
	switch m {
	case OledUndercut:
		return o.Undercut.OledMountConfig, true
	case OledSliding:
		return o.Sliding.OledMountConfig, true
	case OledClip:
		return o.Clip.OledMountConfig, true
	}
	return OledMountConfig{}, false
}

// Load reads a JSON5 config file over Defaults() and validates it.
// Fields not set in the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.ConfigName == "" || cfg.ConfigName == Defaults().ConfigName {
		base := filepath.Base(path)
		cfg.ConfigName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return cfg, nil
}

// Parse decodes JSON5 over Defaults() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.MeshResolution > 0 {
		c.MeshResolution = flags.MeshResolution
	}
	if flags.Preview != "" {
		c.Preview = flags.Preview
	}
	if flags.NoPreview {
		c.Preview = PreviewNone
	}
	if flags.PreviewView != "" {
		c.PreviewView = flags.PreviewView
	}

	if c.OutputDir == "" {
		c.OutputDir = "things"
	}
	if c.MeshResolution <= 0 {
		c.MeshResolution = 0.5
	}
	if c.PreviewView == "" {
		c.PreviewView = "iso"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir      string
	Workers        int
	MeshResolution float64
	Preview        PreviewFormat
	NoPreview      bool
	PreviewView    string
}

// ColumnOffset returns the stagger of column c; columns past the table get none.
func (c *Config) ColumnOffset(col int) mathutil.Vec3 {
	if col < 0 || col >= len(c.ColumnOffsets) {
		return mathutil.Vec3{}
	}
	return c.ColumnOffsets[col]
}

package config

import (
	"math"

	"dactyl-manuform/internal/mathutil"
)

// Defaults returns the stock 5x6 build: notch plates, the six-key thumb cluster with 1U
// keys, a clip-in OLED frame and an external controller holder.
func Defaults() Config {
	return Config{
		ConfigName: "DM",

		Rows:             5,
		Columns:          6,
		Alpha:            math.Pi / 12,
		Beta:             math.Pi / 36,
		CenterCol:        3,
		CenterRowOffset:  3,
		TentingAngle:     math.Pi / 12,
		ColumnStyle:      ColumnStandard,
		ColumnStyleGT5:   ColumnOrthographic,
		ReducedInnerCols: 2,
		ReducedOuterCols: 0,
		ColumnOffsets: []mathutil.Vec3{
			{0, 0, 0},
			{0, 0, 0},
			{0, 2.82, -4.5},
			{0, 0, 0},
			{0, -6, 5},
			{0, -6, 5},
			{0, -6, 5},
		},
		KeyboardZOffset: 11,
		ExtraWidth:      2.5,
		ExtraHeight:     1.0,

		FixedAngles:  []float64{mathutil.Deg2Rad(10), mathutil.Deg2Rad(10), 0, 0, 0, mathutil.Deg2Rad(-15), mathutil.Deg2Rad(-15)},
		FixedX:       []float64{-41.5, -22.5, 0, 20.3, 41.4, 65.5, 89.6},
		FixedZ:       []float64{12.1, 8.3, 0, 5, 10.7, 14.5, 17.5},
		FixedTenting: 0,

		WebThickness: 4.0 + 1.1,
		PostSize:     0.1,
		PostAdj:      0,

		ThumbStyle:                    ThumbDefault,
		OtherThumb:                    ThumbDefault,
		Default1UCluster:              true,
		MinidoxUsize:                  1.6,
		ThumbOffsets:                  mathutil.Vec3{6, -3, 7},
		ThumbPlateBRRotation:          180,
		ThumbPlateBLRotation:          180,
		DefaultThumbScrews:            []mathutil.Vec2{{-21, -58}},
		DefaultSeparableThumbScrews:   []mathutil.Vec2{{-21, -58}},
		MiniThumbScrews:               []mathutil.Vec2{{-29, -52}},
		MiniSeparableThumbScrews:      []mathutil.Vec2{{-29, -52}, {-62, 10}, {12, -25}},
		MinidoxThumbScrews:            []mathutil.Vec2{{-37, -34}},
		MinidoxSeparableThumbScrews:   []mathutil.Vec2{{-37, -34}, {-62, 12}, {10, -25}},
		CarbonfetThumbScrews:          []mathutil.Vec2{{-48, -37}},
		CarbonfetSeparableThumbScrews: []mathutil.Vec2{{-48, -37}, {-52, 10}, {12, -35}},

		BallSide:                    Right,
		TBIWLeftWallXOffsetOverride: 50,
		TBIWOledCenterRow:           0.5,
		TBIWOledTranslationOffset:   mathutil.Vec3{-2.5, 7, 23.5},

		WallZOffset:           15,
		WallXOffset:           5,
		WallYOffset:           6,
		LeftWallXOffset:       12,
		LeftWallZOffset:       3,
		WallThickness:         4.5,
		WallBaseYThickness:    4.5,
		WallBaseXThickness:    4.5,
		WallBaseBackThickness: 4.5,

		PlateStyle:              PlateNotch,
		HoleKeyswitchHeight:     14.0,
		HoleKeyswitchWidth:      14.0,
		NubKeyswitchHeight:      14.0,
		NubKeyswitchWidth:       14.0,
		UndercutKeyswitchHeight: 14.0,
		UndercutKeyswitchWidth:  14.0,
		NotchWidth:              6.0,
		SAProfileKeyHeight:      12.7,
		SALength:                18.5,
		SADoubleLength:          37.5,
		PlateThickness:          4 + 1.1,
		PlateRim:                1.5 + 0.5,
		ClipThickness:           1.1,
		ClipUndercut:            1.0,
		UndercutTransition:      0.2,
		PlateOffset:             0.0,
		HotSwapDepth:            3.5,
		PlateHolesWidth:         14.3,
		PlateHolesHeight:        14.3,
		PlateHolesDiameter:      1.6,
		PlateHolesDepth:         20.0,
		PlatePCBSize:            mathutil.Vec3{18.5, 18.5, 5},
		PlatePCBOffset:          mathutil.Vec3{0, 0, 0},

		OledMountType:         OledNone,
		OledCenterRow:         1.25,
		OledTranslationOffset: mathutil.Vec3{0, 0, 4},
		OledConfigurations:    defaultOledConfigs(),

		ScrewsOffset:            ScrewsInside,
		ScrewInsertHeight:       3.8,
		ScrewInsertBottomRadius: 5.31 / 2,
		ScrewInsertTopRadius:    5.1 / 2,
		ScrewInsertOuterRadius:  4.25,
		ScrewHoleDiameter:       2,

		ControllerMountType:   ControllerExternal,
		ExternalHolderHeight:  12.5,
		ExternalHolderWidth:   28.75,
		ExternalHolderXOffset: -5.0,
		ExternalHolderYOffset: -4.5,
		PCBMountRefOffset:     mathutil.Vec3{0, -5, 0},
		PCBHolderSize:         mathutil.Vec3{34.6, 7, 4},
		PCBHolderOffset:       mathutil.Vec3{8.9, 0, 0},
		PCBUSBHoleSize:        mathutil.Vec3{7.5, 10, 4},
		PCBUSBHoleOffset:      mathutil.Vec3{15, 0, 4.5},
		WallThinnerSize:       mathutil.Vec3{34, 7, 10},
		TRRSHoleSize:          mathutil.Vec2{3, 20},
		TRRSOffset:            mathutil.Vec3{0, 0, 1.5},
		PCBScrewHoleSize:      mathutil.Vec2{0.5, 10},
		PCBScrewXOffsets:      []float64{-5.5, 7.75, 22},
		PCBScrewYOffset:       -2,

		BaseThickness:      3.0,
		BaseOffset:         3.0,
		BaseRimThickness:   5.0,
		ScrewCboreDiameter: 4.0,
		ScrewCboreDepth:    2.0,

		OutputDir:      "things",
		MeshResolution: 0.5,
		Preview:        PreviewWebP,
		PreviewView:    "iso",
		RenderSize:     512,
		Supersample:    2,
	}
}

func defaultOledConfigs() OledConfigs {
	return OledConfigs{
		Undercut: UndercutOled{
			OledMountConfig: OledMountConfig{
				Width:                   15.0,
				Height:                  35.0,
				Rim:                     3.0,
				Depth:                   6.0,
				CutDepth:                20.0,
				LeftWallXOffsetOverride: 28.0,
				LeftWallLowerYOffset:    12.0,
				LeftWallLowerZOffset:    5.0,
			},
			Undercut:          1.0,
			UndercutThickness: 2.0,
		},
		Sliding: SlidingOled{
			OledMountConfig: OledMountConfig{
				Width:                   12.5,
				Height:                  25.0,
				Rim:                     2.5,
				Depth:                   8.0,
				CutDepth:                20.0,
				LeftWallXOffsetOverride: 24.0,
			},
			Thickness:            4.2,
			EdgeOverlapEnd:       6.5,
			EdgeOverlapConnector: 5.5,
			EdgeOverlapThickness: 2.5,
			EdgeOverlapClearance: 2.5,
			EdgeChamfer:          2.0,
		},
		Clip: ClipOled{
			OledMountConfig: OledMountConfig{
				Width:                   12.5,
				Height:                  39.0,
				Rim:                     2.0,
				Depth:                   7.0,
				CutDepth:                20.0,
				LeftWallXOffsetOverride: 24.0,
			},
			Thickness:             4.2,
			BezelThickness:        3.5,
			BezelChamfer:          2.0,
			ConnectorHole:         6.0,
			ScreenStartFromConn:   6.5,
			ScreenLength:          24.5,
			ScreenWidth:           10.5,
			ClipThickness:         1.5,
			ClipWidth:             6.0,
			ClipOverhang:          1.0,
			ClipExtension:         5.0,
			ClipWidthClearance:    0.5,
			ClipUndercut:          0.5,
			ClipUndercutThickness: 2.5,
			ClipYGap:              0.2,
			ClipZGap:              0.2,
		},
	}
}

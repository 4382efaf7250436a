package thumbs

import (
	"slices"

	"dactyl-manuform/internal/connectors"
	"dactyl-manuform/internal/mathutil"
)

const (
	tl = connectors.TL
	tr = connectors.TR
	bl = connectors.BL
	br = connectors.BR
)

// toMain joins the top keys of a cluster to the bottom of columns 0 to 3.
func toMain(skipCorner bool) []ref {
	out := []ref{
		at(TL, tl), grid(0, cornerRow, bl),
		at(TL, tr), grid(0, cornerRow, br),
		at(TR, tl), grid(1, cornerRow, bl),
		at(TR, tr), grid(1, cornerRow, br),
	}
	if !skipCorner {
		out = append(out, grid(2, lastRow, tl))
	}
	return append(out,
		grid(2, lastRow, bl),
		at(TR, tr), grid(2, lastRow, bl),
		at(TR, br), grid(2, lastRow, br),
		grid(3, lastRow, bl),
	)
}

// closeToMain is the wall from the cluster's top right key to column 3.
var closeToMain = [2]wallEnd{at(TR, br).toward(0, -1), grid(3, lastRow, bl).toward(0, -1)}

// defaultTable is the six key cluster with two 1.5U keys on top.
func defaultTable(d Deps) *layoutTable {
	props := d.Placer.Properties()
	ext := (0.95*d.Config.SADoubleLength - props.MountHeight) / 3
	key := func(rot, off mathutil.Vec3, ext float64) keySpec {
		return keySpec{rot: rot, offset: off, ext: ext, turn: -90, bars: true}
	}
	return &layoutTable{
		name: "DEFAULT",
		keys: map[Key]keySpec{
			TL: key(mathutil.Vec3{7.5, -18, 10}, mathutil.Vec3{-32.5, -14.5, -2.5}, ext),
			TR: key(mathutil.Vec3{10, -15, 10}, mathutil.Vec3{-12, -16, 3}, ext),
			ML: key(mathutil.Vec3{6, -34, 40}, mathutil.Vec3{-51, -25, -12}, 0),
			MR: key(mathutil.Vec3{-6, -34, 48}, mathutil.Vec3{-29, -40, -13}, 0),
			BL: key(mathutil.Vec3{-4, -35, 52}, mathutil.Vec3{-56.3, -43.3, -23.5}, 0),
			BR: key(mathutil.Vec3{-16, -33, 54}, mathutil.Vec3{-37.8, -55.3, -25.3}, 0),
		},
		cutoutTurn: 90,
		groups: [][]ref{
			{at(TL, tr), at(TL, br), at(TR, tl), at(TR, bl)},
			{at(BR, tr), at(BR, br), at(MR, tl), at(MR, bl)},
			{at(BL, tr), at(BL, br), at(ML, tl), at(ML, bl)},
			{
				at(BR, tl), at(BL, bl), at(BR, tr), at(BL, br),
				at(MR, tl), at(ML, bl), at(MR, tr), at(ML, br),
			},
			{
				at(TL, tl), at(ML, tr), at(TL, bl), at(ML, br), at(TL, br),
				at(MR, tr), at(TR, bl), at(MR, br), at(TR, br),
			},
			toMain(false),
		},
		walls: [][2]wallEnd{
			{at(MR, br).toward(0, -1), at(TR, br).toward(0, -1)},
			{at(MR, br).toward(0, -1), at(MR, bl).toward(0, -1)},
			{at(BR, br).toward(0, -1), at(BR, bl).toward(0, -1)},
			{at(ML, tr).toward(-0.3, 1), at(ML, tl).toward(0, 1)},
			{at(BL, tr).toward(0, 1), at(BL, tl).toward(0, 1)},
			{at(BR, tl).toward(-1, 0), at(BR, bl).toward(-1, 0)},
			{at(BL, tl).toward(-1, 0), at(BL, bl).toward(-1, 0)},
			// corners
			{at(BR, bl).toward(-1, 0), at(BR, bl).toward(0, -1)},
			{at(BL, tl).toward(-1, 0), at(BL, tl).toward(0, 1)},
			// tweeners
			{at(MR, bl).toward(0, -1), at(BR, br).toward(0, -1)},
			{at(ML, tl).toward(0, 1), at(BL, tr).toward(0, 1)},
			{at(BL, bl).toward(-1, 0), at(BR, tl).toward(-1, 0)},
			closeToMain,
		},
		connection: connectionSpec{
			key:    ML,
			corner: tr,
			first:  [2]float64{-0.3, 1},
			last:   [2]float64{-0.3, 1},
			top:    at(TL, tl),
		},
		screws:    d.Config.DefaultThumbScrews,
		separable: d.Config.DefaultSeparableThumbScrews,
	}
}

// default1UTable is the default cluster with a 1U top right key and a shorter top left.
func default1UTable(d Deps) *layoutTable {
	s := defaultTable(d)
	s.name = "DEFAULT_1U"
	props := d.Placer.Properties()

	tlKey := s.keys[TL]
	tlKey.ext = (0.7*d.Config.SADoubleLength - props.MountHeight) / 3
	s.keys[TL] = tlKey

	trKey := s.keys[TR]
	trKey.ext, trKey.turn, trKey.bars = 0, 0, false
	s.keys[TR] = trKey

	s.groups = slices.Clone(s.groups)
	s.groups[len(s.groups)-1] = toMain(true)
	return s
}

// miniTable is the five key cluster without the middle left key.
func miniTable(d Deps) *layoutTable {
	index := keySpec{rot: mathutil.Vec3{14, -15, 10}, offset: mathutil.Vec3{-15, -10, 5}}
	if d.Config.MiniIndexKey {
		index = keySpec{rot: mathutil.Vec3{-25, 25, 0}, offset: mathutil.Vec3{-12.5, -10, 2}}
	}
	return &layoutTable{
		name: "MINI",
		keys: map[Key]keySpec{
			TL: {rot: mathutil.Vec3{10, -23, 25}, offset: mathutil.Vec3{-35, -16, -2}},
			TR: index,
			MR: {rot: mathutil.Vec3{10, -23, 25}, offset: mathutil.Vec3{-23, -34, -6}},
			BL: {rot: mathutil.Vec3{6, -32, 35}, offset: mathutil.Vec3{-51, -25, -11.5}},
			BR: {rot: mathutil.Vec3{6, -34, 35}, offset: mathutil.Vec3{-39, -43, -16}},
		},
		groups: [][]ref{
			{at(TL, tr), at(TL, br), at(TR, tl), at(TR, bl)},
			{at(BR, tr), at(BR, br), at(MR, tl), at(MR, bl)},
			{at(MR, tr), at(MR, br), at(TR, br)},
			{
				at(BR, tl), at(BL, bl), at(BR, tr), at(BL, br), at(MR, tl), at(TL, bl),
				at(MR, tr), at(TL, br), at(TR, bl), at(MR, tr), at(TR, br),
			},
			{at(TL, tl), at(BL, tr), at(TL, bl), at(BL, br), at(MR, tr), at(TL, bl), at(TL, br), at(MR, tr)},
			toMain(true),
		},
		walls: [][2]wallEnd{
			{at(MR, br).toward(0, -1), at(TR, br).toward(0, -1)},
			{at(MR, br).toward(0, -1), at(MR, bl).toward(0, -1)},
			{at(BR, br).toward(0, -1), at(BR, bl).toward(0, -1)},
			{at(BL, tr).toward(0, 1), at(BL, tl).toward(0, 1)},
			{at(BR, tl).toward(-1, 0), at(BR, bl).toward(-1, 0)},
			{at(BL, tl).toward(-1, 0), at(BL, bl).toward(-1, 0)},
			{at(BR, bl).toward(-1, 0), at(BR, bl).toward(0, -1)},
			{at(BL, tl).toward(-1, 0), at(BL, tl).toward(0, 1)},
			{at(MR, bl).toward(0, -1), at(BR, br).toward(0, -1)},
			{at(BL, bl).toward(-1, 0), at(BR, tl).toward(-1, 0)},
			closeToMain,
		},
		connection: connectionSpec{
			key:    BL,
			corner: tr,
			first:  [2]float64{-0.3, 1},
			last:   [2]float64{-0.3, 1},
			top:    at(TL, tl),
		},
		screws:    d.Config.MiniThumbScrews,
		separable: d.Config.MiniSeparableThumbScrews,
	}
}

// minidoxTable is the three key cluster whose keys are all minidox_Usize tall.
func minidoxTable(d Deps) *layoutTable {
	props := d.Placer.Properties()
	u := d.Config.MinidoxUsize
	ext := props.AdjustablePlateSize(u)
	key := func(rot, off mathutil.Vec3) keySpec {
		return keySpec{rot: rot, offset: off, ext: ext, turn: -90, bars: true}
	}
	dy := -0.4 * (u - 1) * d.Config.SALength
	return &layoutTable{
		name: "MINIDOX",
		keys: map[Key]keySpec{
			TL: key(mathutil.Vec3{10, -23, 25}, mathutil.Vec3{-35, -16, -2}),
			TR: key(mathutil.Vec3{14, -15, 10}, mathutil.Vec3{-15, -10, 5}),
			ML: key(mathutil.Vec3{6, -34, 40}, mathutil.Vec3{-53, -26, -12}),
		},
		shift:      mathutil.Vec3{0, dy, 0},
		barsRotate: true,
		cutoutTurn: 90,
		groups: [][]ref{
			{at(TL, tr), at(TL, br), at(TR, tl), at(TR, bl)},
			{at(TL, tl), at(TL, bl), at(ML, tr), at(ML, br)},
			toMain(true),
		},
		walls: [][2]wallEnd{
			{at(TR, br).toward(0, -1), at(TR, bl).toward(0, -1)},
			{at(TR, bl).toward(0, -1), at(TL, br).toward(0, -1)},
			{at(TL, br).toward(0, -1), at(TL, bl).toward(0, -1)},
			{at(TL, bl).toward(0, -1), at(ML, br).toward(-1, -1)},
			{at(ML, br).toward(-1, -1), at(ML, bl).toward(0, -1)},
			{at(ML, bl).toward(0, -1), at(ML, bl).toward(-1, 0)},
			{at(ML, bl).toward(-1, 0), at(ML, tl).toward(-1, 0)},
			{at(ML, tl).toward(-1, 0), at(ML, tl).toward(0, 1)},
			{at(ML, tr).toward(0, 1), at(ML, tl).toward(0, 1)},
			closeToMain,
		},
		connection: connectionSpec{
			key:    ML,
			corner: tr,
			first:  [2]float64{-0.3, 1},
			last:   [2]float64{0, 1},
			top:    at(TL, tl),
		},
		screws:    shiftFirst(d.Config.MinidoxThumbScrews, dy),
		separable: shiftFirst(d.Config.MinidoxSeparableThumbScrews, dy),
	}
}

// carbonfetTable is the six key cluster with two 1.5U keys on the left whose plates
// only grow upward.
func carbonfetTable(d Deps) *layoutTable {
	mh := d.Placer.Properties().MountHeight
	tall := keySpec{ext: mh/1.15 - mh/2, bars: true, topOnly: true}
	key := func(base keySpec, rot, off mathutil.Vec3) keySpec {
		base.rot, base.offset = rot, off
		return base
	}
	return &layoutTable{
		name: "CARBONFET",
		keys: map[Key]keySpec{
			TL: key(keySpec{}, mathutil.Vec3{10, -24, 10}, mathutil.Vec3{-13, -9.8, 4}),
			TR: key(keySpec{}, mathutil.Vec3{6, -25, 10}, mathutil.Vec3{-7.5, -29.5, 0}),
			ML: key(tall, mathutil.Vec3{8, -31, 14}, mathutil.Vec3{-30.5, -17, -6}),
			MR: key(keySpec{}, mathutil.Vec3{4, -31, 14}, mathutil.Vec3{-22.2, -41, -10.3}),
			BL: key(tall, mathutil.Vec3{6, -37, 18}, mathutil.Vec3{-47, -23, -19}),
			BR: key(keySpec{}, mathutil.Vec3{2, -37, 18}, mathutil.Vec3{-37, -46.4, -22}),
		},
		groups: [][]ref{
			{at(TL, tl), at(TL, bl), at(ML, tr), at(ML, br)},
			{at(ML, tl), at(ML, bl), at(BL, tr), at(BL, br)},
			{at(BR, tr), at(BR, br), at(MR, tl), at(MR, bl)},
			{at(MR, tr), at(MR, br), at(TR, tl), at(TR, bl)},
			{at(TR, br), at(TR, bl), at(MR, br)},
			{
				at(BR, tl), at(BL, bl), at(BR, tr), at(BL, br), at(MR, tl), at(ML, bl),
				at(MR, tr), at(ML, br), at(TR, tl), at(TL, bl), at(TR, tr), at(TL, br),
			},
			{
				at(ML, tl), grid(0, cornerRow, bl), at(ML, tr), grid(0, cornerRow, br),
				at(TL, tl), grid(1, cornerRow, bl), at(TL, tr), grid(1, cornerRow, br),
				grid(2, lastRow, bl), at(TL, tr), grid(2, lastRow, bl), at(TL, br),
				grid(2, lastRow, br), grid(3, lastRow, bl), at(TL, br), at(TR, tr),
			},
			{at(TR, br), at(TR, tr), grid(3, lastRow, bl)},
		},
		walls: [][2]wallEnd{
			{at(MR, br).toward(0, -1), at(TR, br).toward(0, -1)},
			{at(MR, br).toward(0, -1), at(MR, bl).toward(0, -1.15)},
			{at(BR, br).toward(0, -1), at(BR, bl).toward(0, -1)},
			{at(BL, tr).toward(-0.3, 1), at(BL, tl).toward(0, 1)},
			{at(BR, tl).toward(-1, 0), at(BR, bl).toward(-1, 0)},
			{at(BL, tl).toward(-1, 0), at(BL, bl).toward(-1, 0)},
			// corners
			{at(BR, bl).toward(-1, 0), at(BR, bl).toward(0, -1)},
			{at(BL, tl).toward(-1, 0), at(BL, tl).toward(0, 1)},
			// tweeners
			{at(MR, bl).toward(0, -1.15), at(BR, br).toward(0, -1)},
			{at(BL, bl).toward(-1, 0), at(BR, tl).toward(-1, 0)},
			closeToMain,
		},
		connection: connectionSpec{
			key:    BL,
			corner: tr,
			first:  [2]float64{-0.3, 1},
			last:   [2]float64{-0.3, 1},
			top:    at(ML, tl),
		},
		screws:    d.Config.CarbonfetThumbScrews,
		separable: d.Config.CarbonfetSeparableThumbScrews,
	}
}

// shiftFirst moves the first screw by dy, the one beside the stretched keys.
func shiftFirst(screws []mathutil.Vec2, dy float64) []mathutil.Vec2 {
	out := slices.Clone(screws)
	if len(out) > 0 {
		out[0][1] += dy
	}
	return out
}

package qrcode

import (
	"fmt"

	"github.com/ivan-nizamov/qrfolio"
)

type blockGroup struct {
	count         int
	dataCodewords int
}

type ecBlocks struct {
	ecCodewordsPerBlock int
	groups              []blockGroup
}

func (e *ecBlocks) numBlocks() int {
	n := 0
	for _, g := range e.groups {
		n += g.count
	}
	return n
}

func (e *ecBlocks) dataCodewords() int {
	n := 0
	for _, g := range e.groups {
		n += g.count * g.dataCodewords
	}
	return n
}

// Version describes the layout of one of the 40 symbol sizes.
type Version struct {
	number         int
	alignment      []int
	blocks         [4]ecBlocks
	totalCodewords int
}

// VersionFor returns version n (1-40).
func VersionFor(n int) (*Version, error) {
	if n < 1 || n > 40 {
		return nil, fmt.Errorf("%w: version %d out of range 1-40", qrfolio.ErrInvalidOptions, n)
	}
	return &versions[n-1], nil
}

// Number returns the version number.
func (v *Version) Number() int { return v.number }

// Dimension returns the side length in modules.
func (v *Version) Dimension() int { return 4*v.number + 17 }

// AlignmentCenters returns the row/column coordinates of alignment pattern
// centres.
func (v *Version) AlignmentCenters() []int { return v.alignment }

// TotalCodewords returns data plus EC codewords.
func (v *Version) TotalCodewords() int { return v.totalCodewords }

// DataCodewords returns the number of data codewords at level l.
func (v *Version) DataCodewords(l Level) int { return v.blocks[l].dataCodewords() }

// ECCodewordsPerBlock returns the EC codewords in each block at level l.
func (v *Version) ECCodewordsPerBlock(l Level) int { return v.blocks[l].ecCodewordsPerBlock }

// NumBlocks returns the number of blocks at level l.
func (v *Version) NumBlocks(l Level) int { return v.blocks[l].numBlocks() }

func (v *Version) String() string { return fmt.Sprintf("%d", v.number) }

func version(number int, alignment []int, l, m, q, h ecBlocks) Version {
	v := Version{number: number, alignment: alignment, blocks: [4]ecBlocks{l, m, q, h}}
	for _, g := range l.groups {
		v.totalCodewords += g.count * (g.dataCodewords + l.ecCodewordsPerBlock)
	}
	return v
}

func ecb(ecCodewords int, groups ...blockGroup) ecBlocks {
	return ecBlocks{ecCodewordsPerBlock: ecCodewords, groups: groups}
}

func grp(count, dataCodewords int) blockGroup {
	return blockGroup{count: count, dataCodewords: dataCodewords}
}

// versions holds the ISO/IEC 18004 Table 9 block structure, levels L, M, Q, H.
var versions = [40]Version{
	version(1, nil, ecb(7, grp(1, 19)), ecb(10, grp(1, 16)), ecb(13, grp(1, 13)), ecb(17, grp(1, 9))),
	version(2, []int{6, 18}, ecb(10, grp(1, 34)), ecb(16, grp(1, 28)), ecb(22, grp(1, 22)), ecb(28, grp(1, 16))),
	version(3, []int{6, 22}, ecb(15, grp(1, 55)), ecb(26, grp(1, 44)), ecb(18, grp(2, 17)), ecb(22, grp(2, 13))),
	version(4, []int{6, 26}, ecb(20, grp(1, 80)), ecb(18, grp(2, 32)), ecb(26, grp(2, 24)), ecb(16, grp(4, 9))),
	version(5, []int{6, 30}, ecb(26, grp(1, 108)), ecb(24, grp(2, 43)), ecb(18, grp(2, 15), grp(2, 16)), ecb(22, grp(2, 11), grp(2, 12))),
	version(6, []int{6, 34}, ecb(18, grp(2, 68)), ecb(16, grp(4, 27)), ecb(24, grp(4, 19)), ecb(28, grp(4, 15))),
	version(7, []int{6, 22, 38}, ecb(20, grp(2, 78)), ecb(18, grp(4, 31)), ecb(18, grp(2, 14), grp(4, 15)), ecb(26, grp(4, 13), grp(1, 14))),
	version(8, []int{6, 24, 42}, ecb(24, grp(2, 97)), ecb(22, grp(2, 38), grp(2, 39)), ecb(22, grp(4, 18), grp(2, 19)), ecb(26, grp(4, 14), grp(2, 15))),
	version(9, []int{6, 26, 46}, ecb(30, grp(2, 116)), ecb(22, grp(3, 36), grp(2, 37)), ecb(20, grp(4, 16), grp(4, 17)), ecb(24, grp(4, 12), grp(4, 13))),
	version(10, []int{6, 28, 50}, ecb(18, grp(2, 68), grp(2, 69)), ecb(26, grp(4, 43), grp(1, 44)), ecb(24, grp(6, 19), grp(2, 20)), ecb(28, grp(6, 15), grp(2, 16))),
	version(11, []int{6, 30, 54}, ecb(20, grp(4, 81)), ecb(30, grp(1, 50), grp(4, 51)), ecb(28, grp(4, 22), grp(4, 23)), ecb(24, grp(3, 12), grp(8, 13))),
	version(12, []int{6, 32, 58}, ecb(24, grp(2, 92), grp(2, 93)), ecb(22, grp(6, 36), grp(2, 37)), ecb(26, grp(4, 20), grp(6, 21)), ecb(28, grp(7, 14), grp(4, 15))),
	version(13, []int{6, 34, 62}, ecb(26, grp(4, 107)), ecb(22, grp(8, 37), grp(1, 38)), ecb(24, grp(8, 20), grp(4, 21)), ecb(22, grp(12, 11), grp(4, 12))),
	version(14, []int{6, 26, 46, 66}, ecb(30, grp(3, 115), grp(1, 116)), ecb(24, grp(4, 40), grp(5, 41)), ecb(20, grp(11, 16), grp(5, 17)), ecb(24, grp(11, 12), grp(5, 13))),
	version(15, []int{6, 26, 48, 70}, ecb(22, grp(5, 87), grp(1, 88)), ecb(24, grp(5, 41), grp(5, 42)), ecb(30, grp(5, 24), grp(7, 25)), ecb(24, grp(11, 12), grp(7, 13))),
	version(16, []int{6, 26, 50, 74}, ecb(24, grp(5, 98), grp(1, 99)), ecb(28, grp(7, 45), grp(3, 46)), ecb(24, grp(15, 19), grp(2, 20)), ecb(30, grp(3, 15), grp(13, 16))),
	version(17, []int{6, 30, 54, 78}, ecb(28, grp(1, 107), grp(5, 108)), ecb(28, grp(10, 46), grp(1, 47)), ecb(28, grp(1, 22), grp(15, 23)), ecb(28, grp(2, 14), grp(17, 15))),
	version(18, []int{6, 30, 56, 82}, ecb(30, grp(5, 120), grp(1, 121)), ecb(26, grp(9, 43), grp(4, 44)), ecb(28, grp(17, 22), grp(1, 23)), ecb(28, grp(2, 14), grp(19, 15))),
	version(19, []int{6, 30, 58, 86}, ecb(28, grp(3, 113), grp(4, 114)), ecb(26, grp(3, 44), grp(11, 45)), ecb(26, grp(17, 21), grp(4, 22)), ecb(26, grp(9, 13), grp(16, 14))),
	version(20, []int{6, 34, 62, 90}, ecb(28, grp(3, 107), grp(5, 108)), ecb(26, grp(3, 41), grp(13, 42)), ecb(30, grp(15, 24), grp(5, 25)), ecb(28, grp(15, 15), grp(10, 16))),
	version(21, []int{6, 28, 50, 72, 94}, ecb(28, grp(4, 116), grp(4, 117)), ecb(26, grp(17, 42)), ecb(28, grp(17, 22), grp(6, 23)), ecb(30, grp(19, 16), grp(6, 17))),
	version(22, []int{6, 26, 50, 74, 98}, ecb(28, grp(2, 111), grp(7, 112)), ecb(28, grp(17, 46)), ecb(30, grp(7, 24), grp(16, 25)), ecb(24, grp(34, 13))),
	version(23, []int{6, 30, 54, 78, 102}, ecb(30, grp(4, 121), grp(5, 122)), ecb(28, grp(4, 47), grp(14, 48)), ecb(30, grp(11, 24), grp(14, 25)), ecb(30, grp(16, 15), grp(14, 16))),
	version(24, []int{6, 28, 54, 80, 106}, ecb(30, grp(6, 117), grp(4, 118)), ecb(28, grp(6, 45), grp(14, 46)), ecb(30, grp(11, 24), grp(16, 25)), ecb(30, grp(30, 16), grp(2, 17))),
	version(25, []int{6, 32, 58, 84, 110}, ecb(26, grp(8, 106), grp(4, 107)), ecb(28, grp(8, 47), grp(13, 48)), ecb(30, grp(7, 24), grp(22, 25)), ecb(30, grp(22, 15), grp(13, 16))),
	version(26, []int{6, 30, 58, 86, 114}, ecb(28, grp(10, 114), grp(2, 115)), ecb(28, grp(19, 46), grp(4, 47)), ecb(28, grp(28, 22), grp(6, 23)), ecb(30, grp(33, 16), grp(4, 17))),
	version(27, []int{6, 34, 62, 90, 118}, ecb(30, grp(8, 122), grp(4, 123)), ecb(28, grp(22, 45), grp(3, 46)), ecb(30, grp(8, 23), grp(26, 24)), ecb(30, grp(12, 15), grp(28, 16))),
	version(28, []int{6, 26, 50, 74, 98, 122}, ecb(30, grp(3, 117), grp(10, 118)), ecb(28, grp(3, 45), grp(23, 46)), ecb(30, grp(4, 24), grp(31, 25)), ecb(30, grp(11, 15), grp(31, 16))),
	version(29, []int{6, 30, 54, 78, 102, 126}, ecb(30, grp(7, 116), grp(7, 117)), ecb(28, grp(21, 45), grp(7, 46)), ecb(30, grp(1, 23), grp(37, 24)), ecb(30, grp(19, 15), grp(26, 16))),
	version(30, []int{6, 26, 52, 78, 104, 130}, ecb(30, grp(5, 115), grp(10, 116)), ecb(28, grp(19, 47), grp(10, 48)), ecb(30, grp(15, 24), grp(25, 25)), ecb(30, grp(23, 15), grp(25, 16))),
	version(31, []int{6, 30, 56, 82, 108, 134}, ecb(30, grp(13, 115), grp(3, 116)), ecb(28, grp(2, 46), grp(29, 47)), ecb(30, grp(42, 24), grp(1, 25)), ecb(30, grp(23, 15), grp(28, 16))),
	version(32, []int{6, 34, 60, 86, 112, 138}, ecb(30, grp(17, 115)), ecb(28, grp(10, 46), grp(23, 47)), ecb(30, grp(10, 24), grp(35, 25)), ecb(30, grp(19, 15), grp(35, 16))),
	version(33, []int{6, 30, 58, 86, 114, 142}, ecb(30, grp(17, 115), grp(1, 116)), ecb(28, grp(14, 46), grp(21, 47)), ecb(30, grp(29, 24), grp(19, 25)), ecb(30, grp(11, 15), grp(46, 16))),
	version(34, []int{6, 34, 62, 90, 118, 146}, ecb(30, grp(13, 115), grp(6, 116)), ecb(28, grp(14, 46), grp(23, 47)), ecb(30, grp(44, 24), grp(7, 25)), ecb(30, grp(59, 16), grp(1, 17))),
	version(35, []int{6, 30, 54, 78, 102, 126, 150}, ecb(30, grp(12, 121), grp(7, 122)), ecb(28, grp(12, 47), grp(26, 48)), ecb(30, grp(39, 24), grp(14, 25)), ecb(30, grp(22, 15), grp(41, 16))),
	version(36, []int{6, 24, 50, 76, 102, 128, 154}, ecb(30, grp(6, 121), grp(14, 122)), ecb(28, grp(6, 47), grp(34, 48)), ecb(30, grp(46, 24), grp(10, 25)), ecb(30, grp(2, 15), grp(64, 16))),
	version(37, []int{6, 28, 54, 80, 106, 132, 158}, ecb(30, grp(17, 122), grp(4, 123)), ecb(28, grp(29, 46), grp(14, 47)), ecb(30, grp(49, 24), grp(10, 25)), ecb(30, grp(24, 15), grp(46, 16))),
	version(38, []int{6, 32, 58, 84, 110, 136, 162}, ecb(30, grp(4, 122), grp(18, 123)), ecb(28, grp(13, 46), grp(32, 47)), ecb(30, grp(48, 24), grp(14, 25)), ecb(30, grp(42, 15), grp(32, 16))),
	version(39, []int{6, 26, 54, 82, 110, 138, 166}, ecb(30, grp(20, 117), grp(4, 118)), ecb(28, grp(40, 47), grp(7, 48)), ecb(30, grp(43, 24), grp(22, 25)), ecb(30, grp(10, 15), grp(67, 16))),
	version(40, []int{6, 30, 58, 86, 114, 142, 170}, ecb(30, grp(19, 118), grp(6, 119)), ecb(28, grp(18, 47), grp(31, 48)), ecb(30, grp(34, 24), grp(34, 25)), ecb(30, grp(20, 15), grp(61, 16))),
}

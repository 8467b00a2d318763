package model

// Block is a unit of rich body content. It is a closed sum over the block
// types of this package.
type Block interface {
	BlockType() string
	block()
}

type Paragraph struct {
	Text string
}

type Section struct {
	ID      string
	Title   string
	Content []Block
}

type Quote struct {
	Text []Block
	Cite string
}

// ImageFile is a single figure inside an image block.
type ImageFile struct {
	DOI         string
	ID          string
	Label       string
	Title       string
	Caption     []Block
	Image       Image
	Attribution []string
	SourceData  []AssetFile
}

// ImageBlock is a figure with optional figure supplements.
type ImageBlock struct {
	Image       ImageFile
	Supplements []ImageFile
}

type Code struct {
	Code     string
	Language string
}

// List is a list of plain text items. Prefix is the marker style (bullet,
// number, alpha-lower, ...).
type List struct {
	Prefix string
	Items  []string
}

type YouTube struct {
	ID     string
	Width  int
	Height int
}

func (*Paragraph) BlockType() string  { return "paragraph" }
func (*Section) BlockType() string    { return "section" }
func (*Quote) BlockType() string      { return "quote" }
func (*ImageBlock) BlockType() string { return "image" }
func (*Code) BlockType() string       { return "code" }
func (*List) BlockType() string       { return "list" }
func (*YouTube) BlockType() string    { return "youtube" }

func (*Paragraph) block()  {}
func (*Section) block()    {}
func (*Quote) block()      {}
func (*ImageBlock) block() {}
func (*Code) block()       {}
func (*List) block()       {}
func (*YouTube) block()    {}

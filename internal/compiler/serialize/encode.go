package serialize

import (
	"fmt"
	"math"

	"github.com/x2bin-lang/x2bin/internal/compiler/literal"
	"github.com/x2bin-lang/x2bin/internal/compiler/wire"
)

// WriteLiteral encodes one literal. STRING and LOCAL text is interned into
// the string table and CODE and SCRIPT text into the script table; the id is
// written in their place.
func (c *Context) WriteLiteral(w *wire.Writer, lit literal.Literal) error {
	switch t := lit.Type(); t {
	case literal.Int, literal.Enum:
		c.opts.Int.Write(w, int32(lit.Int()))
	case literal.Int8, literal.Byte:
		w.Uint8(uint8(lit.Int()))
	case literal.Int16, literal.Short:
		w.Int16(int16(lit.Int()))
	case literal.Int32:
		w.Int32(int32(lit.Int()))
	case literal.Int64, literal.Long:
		w.Int64(lit.Int())
	case literal.Int7:
		w.Varint32(int32(lit.Int()))
	case literal.Long7:
		w.Varint64(lit.Int())
	case literal.Bool, literal.Exist, literal.NoExist:
		w.Bool(lit.Int() != 0)

	case literal.Half:
		w.Half(lit.Float())
	case literal.Float, literal.Single:
		w.Float32(float32(lit.Float()))
	case literal.Double:
		w.Float64(lit.Float())
	case literal.Angle:
		if c.opts.Parser.DefaultDouble {
			w.Float64(lit.Float() * math.Pi / 180)
		} else {
			w.Float32(float32(lit.Float()) * math.Pi / 180)
		}

	case literal.String, literal.Local:
		c.writeID(w, c.Strings.InsertString(c.opts.StringTrim.Apply(lit.Str())))
	case literal.StringTrim, literal.LocalTrim:
		c.writeID(w, c.Strings.InsertString(wire.AggressiveTrim(lit.Str())))
	case literal.StringNoTrim, literal.LocalNoTrim:
		c.writeID(w, c.Strings.InsertString(lit.Str()))
	case literal.Raw:
		return c.opts.String.Write(w, c.opts.StringTrim.Apply(lit.Str()))
	case literal.RawTrim:
		return c.opts.String.Write(w, wire.AggressiveTrim(lit.Str()))
	case literal.RawNoTrim:
		return c.opts.String.Write(w, lit.Str())
	case literal.Code, literal.Script:
		c.writeID(w, c.Scripts.InsertString(c.opts.CodeTrim.Apply(lit.Str())))
	case literal.Color:
		rgba, err := literal.ParseColor(lit.Str())
		if err != nil {
			return err
		}
		w.Bytes([]byte{rgba.R, rgba.G, rgba.B, rgba.A})

	default:
		return fmt.Errorf("cannot encode a literal of type %s", t)
	}
	return w.Err()
}

// WriteLiterals encodes lits in order.
func (c *Context) WriteLiterals(w *wire.Writer, lits []literal.Literal) error {
	for _, lit := range lits {
		if err := c.WriteLiteral(w, lit); err != nil {
			return err
		}
	}
	return nil
}

// WriteCount writes a sequence length with the general integer encoder.
func (c *Context) WriteCount(w *wire.Writer, n int) {
	c.opts.Int.Write(w, int32(n))
}

func (c *Context) writeID(w *wire.Writer, id int) {
	c.opts.Int.Write(w, int32(id))
}

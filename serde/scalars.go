package serde

import (
	"reflect"

	"github.com/brentfarrar/dcgo/diag"
	"github.com/brentfarrar/dcgo/env"
	"github.com/brentfarrar/dcgo/reader"
)

func boolHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			b, err := r.ReadBool()
			if err != nil {
				return err
			}
			v.SetBool(b)
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteBool(v.Bool())
		},
	}
}

func intHandler(bits int) Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			n, err := r.ReadInt(bits)
			if err != nil {
				return err
			}
			v.SetInt(n)
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteInt(bits, v.Int())
		},
	}
}

func uintHandler(bits int) Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			n, err := r.ReadUint(bits)
			if err != nil {
				return err
			}
			v.SetUint(n)
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteUint(bits, v.Uint())
		},
	}
}

func float32Handler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			f, err := r.ReadFloat()
			if err != nil {
				return err
			}
			v.SetFloat(float64(f))
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteFloat(float32(v.Float()))
		},
	}
}

func float64Handler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			f, err := r.ReadDouble()
			if err != nil {
				return err
			}
			v.SetFloat(f)
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteDouble(v.Float())
		},
	}
}

func stringHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			v.SetString(s)
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteString(v.String())
		},
	}
}

func blobHandler() Handler {
	return Handler{
		Deserialize: func(ctx *Context, r reader.Reader, v reflect.Value) error {
			b, err := r.ReadBlob()
			if err != nil {
				return err
			}
			v.SetBytes(b)
			return nil
		},
		Serialize: func(ctx *Context, w reader.Writer, v reflect.Value) error {
			return w.WriteBlob(v.Bytes())
		},
	}
}

func (c *Context) failScalar(code diag.Code, args ...diag.Arg) error {
	return env.Current().Diag(code).With(args...)
}

//go:build windows

package query

import (
	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/rs/zerolog"
)

// CoInitializeEx reports S_FALSE when the thread is already initialized;
// that is not a failure.
const sFalse = 0x00000001

type comExecutor struct {
	log zerolog.Logger
}

// NewExecutor returns the executor backed by the host management service.
func NewExecutor(log zerolog.Logger) Executor {
	return &comExecutor{log: log}
}

func (e *comExecutor) Query(query, namespace string) string {
	if query == "" {
		return ""
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		oleErr, ok := err.(*ole.OleError)
		if !ok || (oleErr.Code() != ole.S_OK && oleErr.Code() != sFalse) {
			e.log.Debug().Err(err).Msg("com initialization failed")
			return ""
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		e.log.Debug().Err(err).Msg("locator creation failed")
		return ""
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		e.log.Debug().Err(err).Msg("locator dispatch query failed")
		return ""
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", ".", namespace)
	if err != nil {
		// Namespace may be absent on older hosts. Empty result, not an error.
		e.log.Debug().Err(err).Str("namespace", namespace).Msg("namespace connect failed")
		return ""
	}
	service := serviceRaw.ToIDispatch()
	defer serviceRaw.Clear()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", query)
	if err != nil {
		e.log.Debug().Err(err).Str("query", query).Msg("query execution failed")
		return ""
	}
	result := resultRaw.ToIDispatch()
	defer resultRaw.Clear()

	countVar, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		e.log.Debug().Err(err).Msg("result count unavailable")
		return ""
	}
	count := int(countVar.Val)
	countVar.Clear()

	rows := make([][]Property, 0, count)
	for i := 0; i < count; i++ {
		row, err := e.readRow(result, i)
		if err != nil {
			e.log.Debug().Err(err).Int("row", i).Msg("row read failed")
			continue
		}
		rows = append(rows, row)
	}

	return FlattenRows(rows)
}

func (e *comExecutor) readRow(result *ole.IDispatch, index int) ([]Property, error) {
	itemRaw, err := oleutil.CallMethod(result, "ItemIndex", index)
	if err != nil {
		return nil, err
	}
	item := itemRaw.ToIDispatch()
	defer itemRaw.Clear()

	propsRaw, err := oleutil.GetProperty(item, "Properties_")
	if err != nil {
		return nil, err
	}
	props := propsRaw.ToIDispatch()
	defer propsRaw.Clear()

	var row []Property
	err = oleutil.ForEach(props, func(v *ole.VARIANT) error {
		prop := v.ToIDispatch()
		defer prop.Release()

		nameVar, err := oleutil.GetProperty(prop, "Name")
		if err != nil {
			return err
		}
		name := nameVar.ToString()
		nameVar.Clear()

		valueVar, err := oleutil.GetProperty(prop, "Value")
		if err != nil {
			return err
		}
		row = append(row, Property{Name: name, Value: variantValue(valueVar)})
		valueVar.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func variantValue(v *ole.VARIANT) any {
	if v == nil {
		return nil
	}
	if v.VT&ole.VT_ARRAY != 0 {
		arr := v.ToArray()
		if arr == nil {
			return nil
		}
		return arr.ToValueArray()
	}
	return v.Value()
}

package sfv

import "fmt"

// InnerList is an RFC 8941 inner list: a parenthesized sequence of items
// carrying its own trailing parameters.
type InnerList struct {
	Items      []Item
	Parameters []Parameter
}

// List is an RFC 8941 list: an ordered sequence of Item or InnerList
// members.
type List struct {
	Members []interface{}
}

// Dictionary is an RFC 8941 dictionary: an ordered map from key to Item or
// InnerList. Keys holds insertion order with duplicates already resolved —
// a repeated key overwrites its earlier value in place rather than
// appending a second entry.
type Dictionary struct {
	Keys   []string
	Values map[string]interface{}
}

// ParseDictionary parses "key1=value1, key2=value2, ..." per RFC 8941
// §4.2.2. A bare key with no '=' is shorthand for a boolean-true item.
func (p *Parser) ParseDictionary() (*Dictionary, error) {
	if err := p.checkInputLength(); err != nil {
		return nil, err
	}

	dict := &Dictionary{
		Keys:   make([]string, 0),
		Values: make(map[string]interface{}),
	}

	if p.isEOF() {
		return dict, nil
	}

	for {
		if p.isEOF() {
			break
		}

		if p.limits.MaxDictionaryMembers > 0 && len(dict.Keys) >= p.limits.MaxDictionaryMembers {
			return nil, p.newParseError(fmt.Sprintf("dictionary members %d exceeds limit %d",
				len(dict.Keys)+1, p.limits.MaxDictionaryMembers))
		}

		keyToken, err := p.parseToken()
		if err != nil {
			return nil, err
		}
		key := keyToken.Value

		// No OWS is permitted around '=' in a dictionary entry.
		c := p.peek()
		if c == ' ' || c == '\t' {
			return nil, p.newParseError("whitespace not allowed before '=' in dictionary")
		}

		var value interface{}

		if c == '=' {
			p.offset++

			if p.peek() == '(' {
				items, params, err := p.parseInnerList()
				if err != nil {
					return nil, err
				}
				value = InnerList{
					Items:      items,
					Parameters: params,
				}
			} else {
				itemValue, err := p.parseBareItem()
				if err != nil {
					return nil, err
				}

				itemParams, err := p.parseParameters()
				if err != nil {
					return nil, err
				}

				value = Item{
					Value:      itemValue,
					Parameters: itemParams,
				}
			}
		} else {
			value = Item{
				Value:      true,
				Parameters: nil,
			}
		}

		if _, exists := dict.Values[key]; !exists {
			dict.Keys = append(dict.Keys, key)
		}
		dict.Values[key] = value

		p.skipOWS()

		if p.peek() == ',' {
			p.offset++
			p.skipOWS()

			if p.isEOF() {
				return nil, p.newParseError("trailing comma in dictionary not allowed")
			}
		} else {
			break
		}
	}

	return dict, nil
}

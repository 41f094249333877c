/*

Process of compilation

Source Text (.basm) ->
	front.Parse ->
Raw Instructions (ir.Code, symbolic jumps) ->
	link.Resolve ->
Resolved Instructions (ir.Code, jump addresses) ->
	vm.Run | obj.Encode ->
Output Text | Object File (.basmo)

Object File ->
	obj.Decode ->
Resolved Instructions

*/
package compiler
